package studio

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// uiModelPersistenceData is what survives a restart. Session progress is never persisted.
type uiModelPersistenceData struct {
	LastClassID string `json:"last_class_id,omitempty"`
}

type uiModelPersistence struct {
	filePath string
	data     uiModelPersistenceData
	logger   *log.Logger
}

// newUIModelPersistence loads filePath. An empty filePath disables persistence.
func newUIModelPersistence(filePath string, logger *log.Logger) *uiModelPersistence {
	p := &uiModelPersistence{
		filePath: filePath,
		logger:   logger,
	}
	p.load()
	return p
}

func (p *uiModelPersistence) getLastClassID() string {
	return p.data.LastClassID
}

func (p *uiModelPersistence) setLastClassID(classID string) {
	if p.data.LastClassID == classID {
		return
	}
	p.logger.Printf("UIModelPersistence: setLastClassID -> %q", classID)
	p.data.LastClassID = classID
	p.save()
}

func (p *uiModelPersistence) load() {
	p.data = uiModelPersistenceData{}
	if p.filePath == "" {
		return
	}
	raw, err := os.ReadFile(p.filePath)
	if err != nil {
		p.logger.Printf("UIModelPersistence: load %s (no existing file)", p.filePath)
		return
	}
	if err := json.Unmarshal(raw, &p.data); err != nil {
		p.logger.Printf("UIModelPersistence: load %s failed to parse: %v", p.filePath, err)
		p.data = uiModelPersistenceData{}
		return
	}
	p.logger.Printf("UIModelPersistence: load %s -> last class %q", p.filePath, p.data.LastClassID)
}

func (p *uiModelPersistence) save() {
	if p.filePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(p.filePath), 0o755); err != nil {
		p.logger.Printf("UIModelPersistence: save mkdir failed: %v", err)
		return
	}
	if err := writeStateFile(p.filePath, p.data); err != nil {
		p.logger.Printf("UIModelPersistence: save %s failed: %v", p.filePath, err)
		return
	}
	p.logger.Printf("UIModelPersistence: save %s -> last class %q", p.filePath, p.data.LastClassID)
}

// writeStateFile replaces path atomically. A crash mid-write leaves the previous file intact.
func writeStateFile(path string, data uiModelPersistenceData) error {
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending state file: %w", err)
	}
	defer func() {
		_ = pendingFile.Cleanup() // No-op once committed
	}()

	enc := json.NewEncoder(pendingFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
