package services

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"annualreports/config"

	logger "github.com/Bparsons0904/goLogger"
)

const partSuffix = ".part"

// FileCleanupService inspects and tidies the report library on disk.
type FileCleanupService struct {
	config config.Config
	log    logger.Logger
}

func NewFileCleanupService(config config.Config) *FileCleanupService {
	return &FileCleanupService{
		config: config,
		log:    logger.New("fileCleanupService"),
	}
}

type StoredReport struct {
	Company    string    `json:"company"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Partial    bool      `json:"partial"`
}

// ListStoredReports walks the output directory. Partial marks staging files
// left behind by an interrupted atomic write.
func (fcs *FileCleanupService) ListStoredReports(ctx context.Context) ([]StoredReport, error) {
	log := fcs.log.Function("ListStoredReports")
	root := fcs.config.OutputDir

	if _, err := os.Stat(root); os.IsNotExist(err) {
		log.Info("Output directory does not exist", "directory", root)
		return []StoredReport{}, nil
	}

	reports := []StoredReport{}
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if entry.IsDir() {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		company, _, _ := strings.Cut(filepath.ToSlash(relPath), "/")
		reports = append(reports, StoredReport{
			Company:    company,
			Path:       relPath,
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
			Partial:    strings.HasSuffix(entry.Name(), partSuffix),
		})
		return nil
	})
	if err != nil {
		return nil, log.Err("failed to walk output directory", err, "directory", root)
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })

	log.Debug("Listed stored reports", "count", len(reports))
	return reports, nil
}

// RemoveStaleParts deletes staging files older than maxAge and returns how
// many were removed. Completed reports are never touched.
func (fcs *FileCleanupService) RemoveStaleParts(ctx context.Context, maxAge time.Duration) (int, error) {
	log := fcs.log.Function("RemoveStaleParts")

	reports, err := fcs.ListStoredReports(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	var firstErr error
	for _, report := range reports {
		if !report.Partial || report.ModifiedAt.After(cutoff) {
			continue
		}

		path := filepath.Join(fcs.config.OutputDir, report.Path)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Er("failed to remove stale part file", err, "path", path)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}

	if firstErr != nil {
		return removed, log.Err("failed to remove some part files", firstErr, "removed", removed)
	}

	log.Info("Stale part files removed", "removed", removed, "maxAge", maxAge)
	return removed, nil
}
