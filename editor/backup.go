package editor

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
)

const backupInterval = 30 * time.Second

type backupInfo struct {
	OriginalPath string `json:"original_path"`
	Timestamp    string `json:"timestamp"`
}

// backupTickEvent asks the event loop to write a backup of unsaved changes.
type backupTickEvent struct {
	tcell.EventTime
}

func defaultBackupDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "notepad", "backups")
}

func (e *Editor) backupPathForFile(originalPath string) string {
	h := sha256.Sum256([]byte(originalPath))
	name := fmt.Sprintf("%x.bak", h[:8])
	return filepath.Join(e.backupDir, name)
}

func backupMetaPath(backupPath string) string {
	return backupPath + ".json"
}

func (e *Editor) startBackupTimer() {
	if e.backupDir == "" {
		return
	}
	screen := e.screen
	go func() {
		ticker := time.NewTicker(backupInterval)
		defer ticker.Stop()
		for range ticker.C {
			ev := &backupTickEvent{}
			ev.SetEventNow()
			screen.PostEvent(ev)
		}
	}()
}

// saveBackup writes the unsaved document next to a small metadata file.
func (e *Editor) saveBackup() {
	buf := e.buf
	if e.backupDir == "" || !buf.Dirty || buf.Path == "" {
		return
	}
	if err := os.MkdirAll(e.backupDir, 0755); err != nil {
		return
	}
	bpath := e.backupPathForFile(buf.Path)
	content := strings.Join(buf.Lines, "\n") + "\n"
	if err := os.WriteFile(bpath, []byte(content), 0644); err != nil {
		return
	}

	meta := backupInfo{
		OriginalPath: buf.Path,
		Timestamp:    time.Now().Format(time.RFC3339),
	}
	metaData, _ := json.Marshal(meta)
	os.WriteFile(backupMetaPath(bpath), metaData, 0644)
}

func (e *Editor) cleanBackup(path string) {
	if path == "" || e.backupDir == "" {
		return
	}
	bpath := e.backupPathForFile(path)
	os.Remove(bpath)
	os.Remove(backupMetaPath(bpath))
}

// recoverBackup loads a backup left by a previous session into the open
// buffer as one undoable edit. The file on disk is left alone, so the
// recovered text stays unsaved until the user saves it.
func (e *Editor) recoverBackup() bool {
	buf := e.buf
	if e.backupDir == "" || buf.Path == "" {
		return false
	}
	bpath := e.backupPathForFile(buf.Path)
	metaData, err := os.ReadFile(backupMetaPath(bpath))
	if err != nil {
		return false
	}
	var info backupInfo
	if json.Unmarshal(metaData, &info) != nil || info.OriginalPath != buf.Path {
		return false
	}
	data, err := os.ReadFile(bpath)
	if err != nil {
		return false
	}
	text := strings.TrimRight(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if text == buf.Text() {
		e.cleanBackup(buf.Path)
		return false
	}

	buf.BeginAtomicEdit()
	buf.ReplaceRange(0, buf.Len(), text)
	buf.EndAtomicEdit()
	buf.SetCursorOffset(0)
	buf.RecomputeDirty()
	e.setTemporaryMessage(fmt.Sprintf("Recovered unsaved changes from %s", info.Timestamp))
	return true
}
