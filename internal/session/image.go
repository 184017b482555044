// BYZRA ⸻ internal/session/image.go
// the loaded file and its display facts

package session

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// LoadedImage is the session's subject: the original bytes plus what is
// shown about the file. Width and Height are zero when the pixels cannot be
// read.
type LoadedImage struct {
	Name     string
	MIMEType string
	Size     int64
	Width    int
	Height   int
	Format   string

	data []byte
}

func newLoadedImage(name, mimeType string, data []byte) *LoadedImage {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &LoadedImage{
		Name:     name,
		MIMEType: strings.ToLower(strings.TrimSpace(mimeType)),
		Size:     int64(len(buf)),
		data:     buf,
	}
}

func (i *LoadedImage) FileName() string     { return i.Name }
func (i *LoadedImage) DeclaredType() string { return i.MIMEType }
func (i *LoadedImage) Bytes() []byte        { return i.data }

// HumanSize is the file size in binary units ("2.0 KiB").
func (i *LoadedImage) HumanSize() string {
	return humanize.IBytes(uint64(i.Size))
}

// Dimensions is "WxH", or "-" when unknown.
func (i *LoadedImage) Dimensions() string {
	if i.Width == 0 || i.Height == 0 {
		return "-"
	}
	return fmt.Sprintf("%d × %d", i.Width, i.Height)
}
