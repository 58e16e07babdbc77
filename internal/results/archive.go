package results

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunDirName returns the day-stamped, gene-stamped directory a run writes
// its per-pair logs into.
func RunDirName(gene string, now time.Time) string {
	return now.Format("2006-01-02") + "_" + gene
}

// Archive compresses dir into dir+".zip" (entries prefixed with the
// directory name, mirroring an archive made from the parent) and removes
// the directory. The archive is the unit of delivery: a run is complete
// once it exists.
func Archive(dir string) (string, error) {
	zipPath := dir + ".zip"
	zf, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("creating archive: %w", err)
	}

	zw := zip.NewWriter(zf)
	base := filepath.Base(dir)

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(base + "/" + filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, f)
		f.Close()
		return err
	})
	if err != nil {
		zw.Close()
		zf.Close()
		os.Remove(zipPath)
		return "", fmt.Errorf("archiving %s: %w", dir, err)
	}
	if err := zw.Close(); err != nil {
		zf.Close()
		return "", fmt.Errorf("finalizing archive: %w", err)
	}
	if err := zf.Close(); err != nil {
		return "", fmt.Errorf("closing archive: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("removing run directory: %w", err)
	}
	return zipPath, nil
}

// extractArchive unpacks a run archive into outDir and returns the
// directory the entries landed in.
func extractArchive(zipPath, outDir string) (string, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}
	defer zr.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating extraction directory: %w", err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		dest := filepath.Join(outDir, filepath.FromSlash(f.Name))
		// Reject entries that would escape outDir.
		if !strings.HasPrefix(dest, filepath.Clean(outDir)+string(os.PathSeparator)) {
			return "", fmt.Errorf("archive entry %q escapes extraction directory", f.Name)
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return "", err
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		out, err := os.Create(dest)
		if err != nil {
			rc.Close()
			return "", err
		}
		if _, err := io.Copy(out, rc); err != nil {
			out.Close()
			rc.Close()
			return "", err
		}
		out.Close()
		rc.Close()
	}

	// Archives made by Archive hold a single top-level directory named
	// after the zip stem.
	stem := strings.TrimSuffix(filepath.Base(zipPath), ".zip")
	return filepath.Join(outDir, stem), nil
}
