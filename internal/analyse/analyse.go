// BYZRA ⸻ internal/analyse/analyse.go
// core analysis logic

package analyse

import (
	"fmt"
	"time"

	"exifdrop/internal/export"
	"exifdrop/internal/present"
	"exifdrop/internal/session"
	"exifdrop/internal/util"
)

// result of file metadata analysis
type AnalysisReport struct {
	Path            string
	Name            string
	MimeType        string
	Size            string
	Dimensions      string
	Views           present.Views
	SensitiveFields []string
	Elapsed         time.Duration
}

// examines a file and returns its four views; labels may be nil
func Analyze(path string, labels map[string]string, logger session.Logger) (*AnalysisReport, error) {
	if err := util.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("invalid file: %w", err)
	}

	s := session.New(session.Options{
		Presenter: present.NewPresenter(labels),
		Logger:    logger,
	})
	snap, err := s.LoadFile(path)
	if err != nil {
		return nil, err
	}

	img := snap.Image
	return &AnalysisReport{
		Path:            path,
		Name:            img.Name,
		MimeType:        img.MIMEType,
		Size:            img.HumanSize(),
		Dimensions:      img.Dimensions(),
		Views:           snap.Views,
		SensitiveFields: export.Identifying(snap.Tags),
		Elapsed:         snap.Elapsed,
	}, nil
}
