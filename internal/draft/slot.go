package draft

import (
	"errors"
	"io/fs"

	"github.com/peterbourgon/diskv/v3"
)

// DefaultSlotKey names the draft entry.
const DefaultSlotKey = "diaryDraft"

// DiskSlot stores the draft as one diskv entry.
type DiskSlot struct {
	d   *diskv.Diskv
	key string
}

// NewDiskSlot opens a slot under dir.
func NewDiskSlot(dir, key string) *DiskSlot {
	if key == "" {
		key = DefaultSlotKey
	}
	return &DiskSlot{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 64 * 1024,
		}),
		key: key,
	}
}

// Load returns the stored draft.
func (s *DiskSlot) Load() (string, bool, error) {
	if !s.d.Has(s.key) {
		return "", false, nil
	}
	b, err := s.d.Read(s.key)
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

// Save overwrites the stored draft.
func (s *DiskSlot) Save(text string) error {
	return s.d.Write(s.key, []byte(text))
}

// Clear removes the stored draft. Clearing an empty slot is not an error.
func (s *DiskSlot) Clear() error {
	err := s.d.Erase(s.key)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
