package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/hay-kot/wishlist/internal/core/paginate"
	"github.com/hay-kot/wishlist/internal/core/wishlist"
	"github.com/hay-kot/wishlist/internal/styles"
)

// renderPage writes one page of items followed by the page footer.
func renderPage(w io.Writer, list wishlist.Wishlist, page paginate.Page[wishlist.Item], size int) {
	_, _ = fmt.Fprintln(w, styles.HeaderStyle.Render(list.Name))

	if len(page.Items) == 0 {
		_, _ = fmt.Fprintln(w, styles.DividerStyle.Render("No items in this wishlist."))
		return
	}

	offset := (page.Number - 1) * size
	for i, item := range page.Items {
		line := styles.IndexStyle.Render(fmt.Sprintf("%d.", offset+i+1)) + styles.ItemTitleStyle.Render(item.Title)
		_, _ = fmt.Fprintln(w, line)
		if item.URL != "" {
			_, _ = fmt.Fprintln(w, styles.ItemDetailStyle.Render(item.URL))
		}
		if item.Image != "" {
			_, _ = fmt.Fprintln(w, styles.ItemDetailStyle.Render("image: "+item.Image))
		}
	}

	_, _ = fmt.Fprintln(w, styles.DividerStyle.Render(pageFooter(page)))
}

func pageFooter[T any](page paginate.Page[T]) string {
	parts := []string{fmt.Sprintf("Page %d of %d", page.Number, page.TotalPages)}
	if page.HasPrev() {
		parts = append(parts, fmt.Sprintf("prev: --page %d", page.Number-1))
	}
	if page.HasNext() {
		parts = append(parts, fmt.Sprintf("next: --page %d", page.Number+1))
	}
	return strings.Join(parts, "  ")
}
