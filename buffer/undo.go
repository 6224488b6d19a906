package buffer

import "time"

type OpType int

const (
	OpInsert OpType = iota
	OpDelete
)

// Operation is one recorded text mutation at a rune offset.
type Operation struct {
	Type   OpType
	Offset int
	Text   string
	Before Cursor    // cursor position before op
	Time   time.Time // when the operation was recorded
	Group  int       // group ID for batched undo (0 = ungrouped)
}

type UndoStack struct {
	undos     []Operation
	redos     []Operation
	nextGroup int
}

const undoGroupInterval = 300 * time.Millisecond

func NewUndoStack() *UndoStack {
	return &UndoStack{nextGroup: 1}
}

// Push records op, folding rapid single-rune typing into one group.
func (u *UndoStack) Push(op Operation) {
	op.Time = time.Now()

	if len(u.undos) > 0 {
		prev := &u.undos[len(u.undos)-1]
		if prev.Type == op.Type && RuneLen(op.Text) == 1 && RuneLen(prev.Text) == 1 &&
			op.Time.Sub(prev.Time) < undoGroupInterval &&
			!isGroupBreak(prev, &op) {
			if prev.Group == 0 {
				prev.Group = u.nextGroup
				u.nextGroup++
			}
			op.Group = prev.Group
		}
	}

	u.undos = append(u.undos, op)
	u.redos = u.redos[:0]
}

// PushGrouped records op under an explicit group (atomic edits, replace pairs).
func (u *UndoStack) PushGrouped(op Operation, groupID int) {
	op.Time = time.Now()
	op.Group = groupID
	u.undos = append(u.undos, op)
	u.redos = u.redos[:0]
}

// NewGroup returns a fresh group ID for batching multiple operations as one undo.
func (u *UndoStack) NewGroup() int {
	id := u.nextGroup
	u.nextGroup++
	return id
}

// isGroupBreak returns true if consecutive ops should NOT be grouped
// (whitespace ends a word, or the positions are not adjacent).
func isGroupBreak(prev, cur *Operation) bool {
	ch := cur.Text[0]
	if ch == ' ' || ch == '\n' || ch == '\t' {
		return true
	}
	prevCh := prev.Text[0]
	if prevCh == ' ' || prevCh == '\n' || prevCh == '\t' {
		return true
	}
	switch cur.Type {
	case OpInsert:
		return cur.Offset != prev.Offset+1
	case OpDelete:
		// backspace walks left, forward delete stays put
		return cur.Offset != prev.Offset-1 && cur.Offset != prev.Offset
	}
	return false
}

func (u *UndoStack) CanUndo() bool { return len(u.undos) > 0 }
func (u *UndoStack) CanRedo() bool { return len(u.redos) > 0 }

// PopUndo moves the newest operation and the rest of its group to the
// redo stack and returns them newest first.
func (u *UndoStack) PopUndo() []Operation {
	if len(u.undos) == 0 {
		return nil
	}
	op := u.undos[len(u.undos)-1]
	u.undos = u.undos[:len(u.undos)-1]
	u.redos = append(u.redos, op)
	ops := []Operation{op}

	if op.Group != 0 {
		for len(u.undos) > 0 && u.undos[len(u.undos)-1].Group == op.Group {
			grouped := u.undos[len(u.undos)-1]
			u.undos = u.undos[:len(u.undos)-1]
			u.redos = append(u.redos, grouped)
			ops = append(ops, grouped)
		}
	}
	return ops
}

// PopRedo moves the next redo group back to the undo stack and returns it
// oldest first, the order it has to be replayed in.
func (u *UndoStack) PopRedo() []Operation {
	if len(u.redos) == 0 {
		return nil
	}
	op := u.redos[len(u.redos)-1]
	u.redos = u.redos[:len(u.redos)-1]
	u.undos = append(u.undos, op)
	ops := []Operation{op}

	if op.Group != 0 {
		for len(u.redos) > 0 && u.redos[len(u.redos)-1].Group == op.Group {
			grouped := u.redos[len(u.redos)-1]
			u.redos = u.redos[:len(u.redos)-1]
			u.undos = append(u.undos, grouped)
			ops = append(ops, grouped)
		}
	}
	return ops
}
