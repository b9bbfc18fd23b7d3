package sdk

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"
)

// Archive is a packaged asset directory ready for upload.
type Archive struct {
	TempDir     string
	Path        string
	MD5Checksum string
}

// Remove deletes the temporary files backing the archive.
func (a *Archive) Remove() {
	if a.TempDir != "" {
		os.RemoveAll(a.TempDir)
	}
}

// PrepareAlgoArchive packages an algo directory for registration. The
// directory must contain a Dockerfile since the platform builds it into a
// container image.
func PrepareAlgoArchive(ctx context.Context, buildPath string) (*Archive, error) {
	exists, err := fileExists(filepath.Join(buildPath, "Dockerfile"))
	if err != nil {
		return nil, fmt.Errorf("checking if Dockerfile exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("path does not contain Dockerfile: %s", buildPath)
	}
	return PrepareArchive(ctx, buildPath)
}

// PrepareArchive creates a tar.gz of a directory in a temp location and
// computes its MD5 checksum.
func PrepareArchive(ctx context.Context, srcPath string) (*Archive, error) {
	tmpDir, err := os.MkdirTemp("", "substra-archive")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	tarPath := filepath.Join(tmpDir, "archive.tar.gz")
	if err := tarGz(ctx, srcPath, tarPath); err != nil {
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to create a tar.gz of the directory: %w", err)
	}

	checksum, err := calculateMD5(tarPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to calculate the checksum: %w", err)
	}

	return &Archive{
		Path:        tarPath,
		MD5Checksum: checksum,
		TempDir:     tmpDir,
	}, nil
}

func calculateMD5(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

func tarGz(ctx context.Context, src, dst string) error {
	tarFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create tarFile: %w", err)
	}
	defer tarFile.Close()

	gzWriter := gzip.NewWriter(tarFile)
	defer gzWriter.Close()

	tarWriter := tar.NewWriter(gzWriter)
	defer tarWriter.Close()

	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		klog.V(4).Infof("Tarring: %v", path)
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			return fmt.Errorf("failed to walk the directory: %w", err)
		}

		// Skip the root directory
		if path == src {
			return nil
		}

		header, err := tar.FileInfoHeader(info, info.Name())
		if err != nil {
			return fmt.Errorf("failed to read file headers: %w", err)
		}

		// Use relative filepath to ensure the root directory is not included in the archive
		relativePath, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to determine relative path: %w", err)
		}

		// clean up the file name to avoid including preceding "./" or "/"
		header.Name = strings.TrimPrefix(relativePath, string(filepath.Separator))
		header.Name = filepath.Join(header.Name)

		// Skip if it is not a regular file or a directory
		if !info.Mode().IsRegular() && !info.IsDir() {
			return nil
		}

		if err := tarWriter.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to prepare a tarfile header: %w", err)
		}

		if info.Mode().IsRegular() {
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open file during compression: %w", err)
			}
			defer file.Close()
			if _, err := io.Copy(tarWriter, file); err != nil {
				return fmt.Errorf("failed to copy file contents: %w", err)
			}
		}

		return nil
	})
}

func fileExists(filename string) (bool, error) {
	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
