package server

import (
	"lsp-core/src/internal/common"
	"lsp-core/src/server/watcher"
)

// HandleFileChanges applies a batch of watcher events to the pipeline:
// written and created files are re-read and rebuilt, removed and renamed
// files are retired. The method signature matches the watcher callback, so
// a server wires in directly with watcher.New(cfg, srv.HandleFileChanges).
func (s *Server) HandleFileChanges(events []watcher.Event) {
	if len(events) == 0 {
		return
	}

	var rebuilt, retired int
	for _, event := range events {
		switch event.Operation {
		case watcher.OpRemove, watcher.OpRename:
			s.RemoveFile(event.Path)
			retired++
		case watcher.OpWrite, watcher.OpCreate:
			text, err := common.SafeReadFile(event.Path)
			if err != nil {
				common.PipelineLogger.Warn("skipping changed file: %v", err)
				continue
			}
			s.OpenOrUpdateFile(event.Path, string(text))
			rebuilt++
		}
	}
	common.PipelineLogger.Debug("file changes applied: %d rebuilt, %d retired", rebuilt, retired)
}
