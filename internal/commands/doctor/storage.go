package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/hay-kot/wishlist/internal/core/storage"
)

// StorageCheck verifies the storage file is readable and private.
type StorageCheck struct {
	store storage.Storage
	path  string
}

// NewStorageCheck creates a new storage check for the file at path.
func NewStorageCheck(store storage.Storage, path string) *StorageCheck {
	return &StorageCheck{store: store, path: path}
}

func (c *StorageCheck) Name() string {
	return "Storage"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	info, err := os.Stat(c.path)
	if os.IsNotExist(err) {
		result.Items = append(result.Items, CheckItem{
			Label:  "Storage file",
			Status: StatusPass,
			Detail: "not created yet",
		})
		return result
	}
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Storage file",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	if mode := info.Mode().Perm(); mode&0o077 != 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "Permissions",
			Status: StatusWarn,
			Detail: fmt.Sprintf("%s is accessible by other users (%04o), tokens are stored here", c.path, mode),
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "Permissions",
			Status: StatusPass,
		})
	}

	if _, err := c.store.Get(ctx); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Readable",
			Status: StatusFail,
			Detail: err.Error(),
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "Readable",
			Status: StatusPass,
			Detail: c.path,
		})
	}

	return result
}
