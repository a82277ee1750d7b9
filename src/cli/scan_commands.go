package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"lsp-core/src/config"
	"lsp-core/src/index"
	"lsp-core/src/internal/common"
	"lsp-core/src/server"
	"lsp-core/src/server/documents"
	"lsp-core/src/server/watcher"
)

const scanTimeout = 2 * time.Minute

// RunScan walks a source tree, feeds every matching file through the
// pipeline, and reports the resulting index. A non-empty out saves the
// indexed symbols to a database after the initial pass. With watch set it
// stays running and rebuilds files as they change until interrupted.
func RunScan(dir, configPath, out string, watch bool) error {
	cfg := LoadConfigOrDefault(configPath)
	wcfg := cfg.Watcher
	if wcfg == nil {
		wcfg = config.GetDefaultConfig().Watcher
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	common.CLILogger.Info("🔎 Scanning %s", root)
	common.CLILogger.Info("%s", strings.Repeat("=", 50))

	srv, err := server.NewServer(nil, cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	files, err := collectSources(root, wcfg)
	if err != nil {
		srv.Stop()
		return fmt.Errorf("failed to walk %s: %w", root, err)
	}

	built, failed := buildAll(srv, files)
	stats := srv.Stats()
	common.CLILogger.Info("✅ Indexed %d files (%d failed)", built, failed)
	common.CLILogger.Info("Symbols: %d dynamic, %d static", stats.DynamicSymbols, stats.StaticSymbols)

	if out != "" {
		if err := saveIndex(srv, out); err != nil {
			srv.Stop()
			return err
		}
	}

	if !watch {
		srv.Stop()
		return nil
	}

	w, err := watcher.New(wcfg, srv.HandleFileChanges)
	if err != nil {
		srv.Stop()
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.AddPath(root); err != nil {
		srv.Stop()
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	w.Start()
	common.CLILogger.Info("👀 Watching for changes (Ctrl-C to stop)")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	common.CLILogger.Info("Received shutdown signal, stopping...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	done := make(chan error, 1)
	go func() {
		err := w.Stop()
		srv.Stop()
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			common.CLILogger.Warn("Watcher stopped with error: %v", err)
		} else {
			common.CLILogger.Info("Stopped successfully")
		}
	case <-shutdownCtx.Done():
		common.CLILogger.Warn("Shutdown timeout exceeded")
		return fmt.Errorf("shutdown timeout")
	}

	return nil
}

// collectSources gathers the files under root that match the configured
// extensions, skipping excluded and hidden directories the way the watcher
// does, plus anything the root .gitignore rules out.
func collectSources(root string, wcfg *config.WatcherConfig) ([]string, error) {
	var matcher *ignore.GitIgnore
	if wcfg.RespectGitignore {
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			matcher = gi
		}
	}

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path == root {
				return nil
			}
			base := filepath.Base(path)
			if isExcludedDir(base, wcfg.ExcludeDirs) || strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			if gitIgnored(matcher, root, path, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesExtension(path, wcfg.Extensions) && !gitIgnored(matcher, root, path, false) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// gitIgnored reports whether the root .gitignore matches path. Directories
// match with a trailing slash, the way git does.
func gitIgnored(matcher *ignore.GitIgnore, root, path string, isDir bool) bool {
	if matcher == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return matcher.MatchesPath(rel)
}

// buildAll opens every file on the pipeline and waits for the builds to
// settle. Unreadable files and failed builds count as failures; the pipeline
// logs the details.
func buildAll(srv *server.Server, files []string) (built, failed int) {
	ctx, cancel := common.CreateContext(scanTimeout)
	defer cancel()

	handles := make([]*documents.Handle[*documents.Snapshot], 0, len(files))
	for _, path := range files {
		text, err := common.SafeReadFile(path)
		if err != nil {
			common.CLILogger.Warn("Skipping unreadable file: %v", err)
			failed++
			continue
		}
		handles = append(handles, srv.OpenOrUpdateFile(path, string(text)))
	}
	for _, h := range handles {
		if _, err := h.Await(ctx); err != nil {
			common.CLILogger.Debug("build settled with %s error: %s",
				common.GetErrorCategory(err), common.SanitizeErrorForLogging(err))
			failed++
		} else {
			built++
		}
	}
	return built, failed
}

// saveIndex persists the indexed symbols so the index command can inspect
// them and a later run can preload them through static_index_path.
func saveIndex(srv *server.Server, dbPath string) error {
	ctx, cancel := common.CreateContext(scanTimeout)
	defer cancel()

	symbols := srv.IndexedSymbols()
	if err := index.SaveSymbols(ctx, dbPath, symbols); err != nil {
		return common.WrapProcessingError("failed to save symbol database", err)
	}
	common.CLILogger.Info("💾 Saved %d symbols to %s", len(symbols), dbPath)
	return nil
}

func isExcludedDir(name string, excluded []string) bool {
	for _, dir := range excluded {
		if name == dir {
			return true
		}
	}
	return false
}

func matchesExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, want := range extensions {
		if ext == want {
			return true
		}
	}
	return false
}
