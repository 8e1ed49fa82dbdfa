package image

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/patternmatcher"
	"github.com/moby/patternmatcher/ignorefile"
)

// externalDockerfile is the in-context name of a Dockerfile that lives
// outside the build context directory.
const externalDockerfile = ".exapp.Dockerfile"

const dockerignoreFile = ".dockerignore"

// defaultIgnore applies when the context has no .dockerignore.
var defaultIgnore = []string{"**/.git", "**/node_modules", "**/__pycache__"}

// ContextTar streams contextDir as a tar archive, leaving out what
// .dockerignore excludes the way the docker CLI does. The Dockerfile and
// .dockerignore itself are always sent. When dockerfile is outside
// contextDir it is added under a reserved name.
func ContextTar(contextDir, dockerfile string) (io.ReadCloser, error) {
	if contextDir == "" {
		contextDir = "."
	}
	root, err := filepath.Abs(contextDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve build context: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("build context %s is not a directory", contextDir)
	}

	patterns, err := ignorePatterns(root)
	if err != nil {
		return nil, err
	}
	matcher, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", dockerignoreFile, err)
	}

	keep := map[string]bool{dockerignoreFile: true}
	var external string
	if inContext := dockerfileInContext(contextDir, dockerfile); inContext == externalDockerfile {
		external = dockerfile
		if _, err := os.Stat(external); err != nil {
			return nil, fmt.Errorf("dockerfile %s: %w", external, err)
		}
	} else {
		keep[filepath.FromSlash(inContext)] = true
	}

	pr, pw := io.Pipe()
	go func() {
		tw := tar.NewWriter(pw)
		err := writeTree(tw, root, matcher, keep)
		if err == nil && external != "" {
			err = addFile(tw, external, externalDockerfile)
		}
		if err == nil {
			err = tw.Close()
		}
		pw.CloseWithError(err)
	}()
	return pr, nil
}

// ignorePatterns reads the exclusion patterns of the context at root.
func ignorePatterns(root string) ([]string, error) {
	f, err := os.Open(filepath.Join(root, dockerignoreFile))
	if errors.Is(err, os.ErrNotExist) {
		return defaultIgnore, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	patterns, err := ignorefile.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dockerignoreFile, err)
	}
	return patterns, nil
}

// writeTree adds every file below root that matcher does not exclude. Paths
// in keep are relative to root and added regardless.
func writeTree(tw *tar.Writer, root string, matcher *patternmatcher.PatternMatcher, keep map[string]bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if !keep[rel] {
			excluded, err := matcher.MatchesOrParentMatches(rel)
			if err != nil {
				return err
			}
			if excluded {
				// a "!" pattern may still bring back files below an excluded directory
				if d.IsDir() && !matcher.Exclusions() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		rel = filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return tw.WriteHeader(&tar.Header{
				Name:     rel + "/",
				Mode:     int64(info.Mode().Perm()),
				Typeflag: tar.TypeDir,
				ModTime:  info.ModTime(),
			})
		case info.Mode()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return tw.WriteHeader(&tar.Header{
				Name:     rel,
				Linkname: target,
				Mode:     int64(info.Mode().Perm()),
				Typeflag: tar.TypeSymlink,
				ModTime:  info.ModTime(),
			})
		case info.Mode().IsRegular():
			return addFile(tw, path, rel)
		default:
			return nil
		}
	})
}

func addFile(tw *tar.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if err := tw.WriteHeader(&tar.Header{
		Name:     name,
		Mode:     int64(info.Mode().Perm()),
		Size:     info.Size(),
		Typeflag: tar.TypeReg,
		ModTime:  info.ModTime(),
	}); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", name, err)
	}
	_, err = io.Copy(tw, f)
	return err
}

// dockerfileInContext returns the Dockerfile path relative to contextDir,
// or the reserved name when it lives outside of it.
func dockerfileInContext(contextDir, dockerfile string) string {
	if dockerfile == "" {
		return "Dockerfile"
	}
	if contextDir == "" {
		contextDir = "."
	}
	root, err := filepath.Abs(contextDir)
	if err != nil {
		return externalDockerfile
	}
	abs, err := filepath.Abs(dockerfile)
	if err != nil {
		return externalDockerfile
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return externalDockerfile
	}
	return filepath.ToSlash(rel)
}
