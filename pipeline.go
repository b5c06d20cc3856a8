package snowymage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

func (c *Converter) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			if strings.ToLower(filepath.Ext(file)) != ".png" {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (c *Converter) imageWorker(ctx context.Context, in <-chan string, o *Options) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			// Drain without converting once another stage has failed
			if ctx.Err() != nil {
				continue
			}
			if err := c.ToSNI(file, "", o); err != nil {
				// Keep going over already converted files unless told to replace them
				if errors.Is(err, ErrOutputExists) {
					c.logger.Infof("skipping %s: %v", file, err)
					continue
				}
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

// waitForPipeline returns the first error from any stage. On failure the
// remaining stages are cancelled and waited for so no conversion outlives
// the call.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			defer wg.Done()
			for err := range c {
				out <- err
			}
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Batch converts every PNG file found under path to SNI using workers
// concurrent conversions. Each file is written alongside the original with
// ".sni" appended. Hidden files and directories are skipped.
func (c *Converter) Batch(path string, o *Options, workers int) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if workers < 1 {
		workers = 1
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := c.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := c.imageWorker(ctx, files, o)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
