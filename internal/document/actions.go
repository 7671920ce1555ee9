package document

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/kobzarvs/qcore/internal/cursor"
	"github.com/kobzarvs/qcore/internal/history"
	"github.com/kobzarvs/qcore/internal/logger"
)

const (
	actionMoveLeft          = "move_left"
	actionMoveRight         = "move_right"
	actionMoveUp            = "move_up"
	actionMoveDown          = "move_down"
	actionWordLeft          = "word_left"
	actionWordRight         = "word_right"
	actionLineStart         = "line_start"
	actionLineEnd           = "line_end"
	actionFileStart         = "file_start"
	actionFileEnd           = "file_end"
	actionAddCursorDown     = "add_cursor_down"
	actionAddCursorUp       = "add_cursor_up"
	actionClearMultiCursors = "clear_multi_cursors"
	actionRotatePrimary     = "rotate_primary"
	actionSelectAll         = "select_all"
	actionExpandSelection   = "expand_selection"
	actionShrinkSelection   = "shrink_selection"
	actionBackspace         = "backspace"
	actionDeleteChar        = "delete_char"
	actionNewline           = "newline"
	actionIndent            = "indent"
	actionUndo              = "undo"
	actionRedo              = "redo"
	actionSave              = "save"

	// extendPrefix turns a motion action into its selecting form, as in
	// "extend_word_left".
	extendPrefix = "extend_"
)

var motions = map[string]Motion{
	actionMoveLeft:  cursor.Cursors.MoveLeft,
	actionMoveRight: cursor.Cursors.MoveRight,
	actionMoveUp:    cursor.Cursors.MoveUp,
	actionMoveDown:  cursor.Cursors.MoveDown,
	actionWordLeft:  cursor.Cursors.MoveWordLeft,
	actionWordRight: cursor.Cursors.MoveWordRight,
	actionLineStart: cursor.Cursors.MoveLineStart,
	actionLineEnd:   cursor.Cursors.MoveLineEnd,
	actionFileStart: cursor.Cursors.MoveFileStart,
	actionFileEnd:   cursor.Cursors.MoveFileEnd,
}

// motionFor resolves "move_left"/"extend_left" style names.
func motionFor(action string) (Motion, bool, bool) {
	if m, ok := motions[action]; ok {
		return m, false, true
	}
	if rest, ok := strings.CutPrefix(action, extendPrefix); ok {
		if m, ok := motions[rest]; ok {
			return m, true, true
		}
		if m, ok := motions["move_"+rest]; ok {
			return m, true, true
		}
	}
	return nil, false, false
}

// Exec runs a named action. It reports false for unknown names. Undo and
// redo with nothing to do are not errors here.
func (d *Document) Exec(action string) (bool, error) {
	if m, extend, ok := motionFor(action); ok {
		d.Move(m, extend)
		return true, nil
	}

	var err error
	switch action {
	case actionAddCursorDown:
		d.AddCursorDown()
	case actionAddCursorUp:
		d.AddCursorUp()
	case actionClearMultiCursors:
		d.ClearMultiCursors()
	case actionRotatePrimary:
		d.RotatePrimary()
	case actionSelectAll:
		d.SelectAll()
	case actionExpandSelection:
		d.ExpandSelection()
	case actionShrinkSelection:
		d.ShrinkSelection()
	case actionBackspace:
		err = d.Backspace()
	case actionDeleteChar:
		err = d.Delete()
	case actionNewline:
		err = d.Insert("\n")
	case actionIndent:
		err = d.Insert("\t")
	case actionUndo:
		err = d.Undo()
	case actionRedo:
		err = d.Redo()
	case actionSave:
		err = d.Save("")
	default:
		return false, nil
	}
	if errors.Is(err, history.ErrNothingToUndo) || errors.Is(err, history.ErrNothingToRedo) {
		logger.Debug("document: "+action, "error", err)
		return true, nil
	}
	return true, err
}

// ExecKey runs the action bound to key. Unbound single characters are
// typed; "space" types a space.
func (d *Document) ExecKey(key string) (bool, error) {
	if action, ok := d.cfg.Keymap[key]; ok {
		return d.Exec(action)
	}
	if key == "space" {
		return true, d.Insert(" ")
	}
	if utf8.RuneCountInString(key) == 1 {
		return true, d.Insert(key)
	}
	return false, nil
}
