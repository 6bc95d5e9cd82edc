// Package grammar resolves Normal-mode keystroke buffers into actions.
// It is a pure table: no calendar state, no side effects.
package grammar

import "strconv"

// Op enumerates every Normal-mode action the interpreter can perform.
// The set is closed; the interpreter switches over it exhaustively.
type Op int

const (
	OpNone Op = iota // cancel/clear pending input

	// motions
	OpMoveLeft
	OpMoveRight
	OpMoveUp
	OpMoveDown
	OpMonthStart
	OpMonthEnd
	OpNextMonth
	OpPrevMonth
	OpNextSubcal
	OpPrevSubcal
	OpGotoToday
	OpNextTask
	OpPrevTask

	// commands
	OpInsertTask
	OpChangeTask
	OpToggleDone
	OpDeleteTask
	OpToggleVisible
	OpCycleColor
	OpUndo
	OpRedo
	OpWriteQuit
	OpQuitBang
	OpEnterCommandLine
)

// Action is a resolved command with its repeat count (1 when no count
// was typed; counts only multiply motions).
type Action struct {
	Op    Op
	Count int
}

// Status classifies the outcome of feeding one keystroke.
type Status int

const (
	Resolved Status = iota // Action is valid, buffer consumed
	Pending                // recognized prefix, keep Buffer
	Invalid                // unrecognized sequence, buffer cleared
)

// Resolution is the outcome of Resolve: exactly one of a resolved
// Action, a new pending Buffer, or Invalid.
type Resolution struct {
	Status Status
	Action Action
	Buffer string
}

// single-key tokens, normalized from bubbletea key names
var singles = map[string]Op{
	"h":     OpMoveLeft,
	"left":  OpMoveLeft,
	"l":     OpMoveRight,
	"right": OpMoveRight,
	"k":     OpMoveUp,
	"up":    OpMoveUp,
	"j":     OpMoveDown,
	"down":  OpMoveDown,
	"$":     OpMonthEnd,
	")":     OpNextMonth,
	"(":     OpPrevMonth,
	"]":     OpNextSubcal,
	"[":     OpPrevSubcal,
	"i":     OpInsertTask,
	"x":     OpToggleDone,
	" ":     OpToggleDone,
	"*":     OpCycleColor,
	"u":     OpUndo,
	"U":     OpRedo,
	":":     OpEnterCommandLine,
}

// two-key sequences by prefix; a bare prefix key pends.
var sequences = map[string]map[string]Op{
	"g": {
		"g": OpGotoToday,
		"j": OpNextTask,
		"k": OpPrevTask,
	},
	"c": {"w": OpChangeTask},
	"d": {"d": OpDeleteTask},
	"z": {"c": OpToggleVisible},
	"Z": {
		"Z": OpWriteQuit,
		"Q": OpQuitBang,
	},
}

// Resolve feeds one keystroke into a pending Normal-mode buffer. The
// buffer holds an optional count followed by at most one sequence
// prefix; Resolve never mutates its inputs.
func Resolve(buffer, key string) Resolution {
	if key == "esc" {
		return Resolution{Status: Resolved, Action: Action{Op: OpNone, Count: 1}}
	}

	count, prefix := splitBuffer(buffer)

	// A pending prefix consumes the next key or fails.
	if prefix != "" {
		if op, ok := sequences[prefix][key]; ok {
			return Resolution{Status: Resolved, Action: Action{Op: op, Count: countOf(count)}}
		}
		return Resolution{Status: Invalid}
	}

	// Digits accumulate a count. A leading zero is not a count digit:
	// bare "0" is the jump-to-month-start motion.
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		if key == "0" && count == "" {
			return Resolution{Status: Resolved, Action: Action{Op: OpMonthStart, Count: 1}}
		}
		return Resolution{Status: Pending, Buffer: count + key}
	}

	if _, ok := sequences[key]; ok {
		return Resolution{Status: Pending, Buffer: count + key}
	}

	if op, ok := singles[key]; ok {
		return Resolution{Status: Resolved, Action: Action{Op: op, Count: countOf(count)}}
	}

	return Resolution{Status: Invalid}
}

func splitBuffer(buffer string) (count, prefix string) {
	i := 0
	for i < len(buffer) && buffer[i] >= '0' && buffer[i] <= '9' {
		i++
	}
	return buffer[:i], buffer[i:]
}

func countOf(digits string) int {
	if digits == "" {
		return 1
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
