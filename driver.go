package jsonstream

import (
	"io"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Mode selects how a Parser interprets a sequence of top-level values.
// Its numeric value IS the stream-mode integer the driver reasons about:
// +1 unwraps the outer array, 0 treats the input as a whitespace-separated
// stream of independent values, -1 accepts exactly one value.
type Mode int

const (
	SingleValue Mode = -1
	ValueStream Mode = 0
	UnwrapArray Mode = 1
)

// Outer (driver) states, all negative so they can never collide with a
// gstate. arrElement and ready both represent "waiting for a value or the
// end", deliberately kept as two distinct states rather than one:
// arrElement is reached only via a comma inside an unwrapped array, where
// a value is mandatory and EOF there is always truncation; ready is
// reached when simply waiting for the next top-level value (or end of
// input), where EOF can be a legitimate finish. Collapsing them into one
// state would make a dangling trailing comma in UnwrapArray mode (e.g.
// "[1," followed by EOF) report success instead of the truncation it
// actually is; see DESIGN.md.
const (
	outerPrestart      = -1
	outerArrStart      = -2
	outerArrElement    = -3
	outerArrAfterValue = -4
	outerEnd           = -5
	outerReady         = -6
)

// Parser is the asynchronous, resumable driver. It wraps the growable
// buffer, the position tracker, and the synchronous grammar engine, and
// adds the outer stream/array state machine and the checkpoint/resume
// protocol. A Parser is not safe for concurrent use; Absorb, Finish, and
// Snapshot all require exclusive access.
type Parser[V any] struct {
	builder Builder[V]
	buf     *buffer
	pos     *position

	mode Mode
	done bool

	// state is the unified checkpoint field: an outer state (< 0,
	// interpreted by the driver) or a grammar state (>= 0, interpreted by
	// the synchronous engine). curr is the read offset the parser will
	// next examine. Together with stack, this triple is everything needed
	// to resume.
	state      int
	curr       int
	tokenStart int  // start offset of the scalar token in progress, valid iff midToken()
	lexingKey  bool // the in-progress string is a pending object key, not a value

	// scratch accumulates the decoded text of the string currently being
	// lexed, across as many Absorb calls as it takes to see the closing
	// quote. unicodeAccum and pendingHighSurrogate are scratch space for
	// decoding a \uXXXX escape (and, if it names a high surrogate, waiting
	// for the \uXXXX low surrogate that must immediately follow it).
	scratch              []byte
	unicodeAccum         uint32
	pendingHighSurrogate rune

	stack []frame[V]

	id     uuid.UUID
	logger hclog.Logger
}

// New creates a Parser in the given mode with the default compaction
// threshold. logger may be nil, in which case a no-op logger is used.
func New[V any](mode Mode, builder Builder[V], logger hclog.Logger) *Parser[V] {
	return NewWithCompactionThreshold(mode, builder, logger, 0)
}

// NewWithCompactionThreshold is New with an explicit override for how far a
// read offset advances before the internal buffer discards its consumed
// prefix. threshold <= 0 falls back to defaultCompactionThreshold.
func NewWithCompactionThreshold[V any](mode Mode, builder Builder[V], logger hclog.Logger, threshold int) *Parser[V] {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	p := &Parser[V]{
		builder: builder,
		buf:     newBuffer(threshold),
		pos:     &position{},
		mode:    mode,
		id:      uuid.New(),
		logger:  logger.Named("jsonstream"),
	}
	switch mode {
	case UnwrapArray:
		p.state = outerPrestart
	default:
		p.state = outerReady
	}
	return p
}

// ID returns the identifier assigned to this parser instance at
// construction (or at Snapshot), useful for correlating log lines across
// Absorb calls and for keying a cache of suspended parsers by instance.
func (p *Parser[V]) ID() uuid.UUID { return p.id }

// Stats is a snapshot of the internal buffer's size and compaction
// history, useful for a caller that wants to report on a long-running
// stream's memory behavior without reaching into parser internals.
type Stats struct {
	// BufferLen is the number of bytes currently held in the internal
	// buffer (i.e. absorbed but not yet discarded by compaction).
	BufferLen int
	// BufferCap is the backing array's physical capacity.
	BufferCap int
	// Compactions is the number of times the buffer has discarded its
	// already-consumed prefix since this parser (or the snapshot it was
	// forked from) was created.
	Compactions int
}

// Stats reports the current buffer size and compaction count.
func (p *Parser[V]) Stats() Stats {
	return Stats{
		BufferLen:   p.buf.len(),
		BufferCap:   cap(p.buf.data),
		Compactions: p.buf.compactions,
	}
}

// Absorb appends chunk to the internal buffer and runs the drive loop,
// returning whatever complete top-level values this call produced. Values
// emitted by a previous Absorb/Finish call are never re-emitted. Absorb
// must not be called after Finish.
func (p *Parser[V]) Absorb(chunk []byte) ([]V, error) {
	p.buf.append(chunk)
	p.logger.Trace("absorbed chunk", "id", p.id, "bytes", len(chunk))
	return p.drive()
}

// AbsorbString UTF-8 encodes s and absorbs it.
func (p *Parser[V]) AbsorbString(s string) ([]V, error) {
	return p.Absorb([]byte(s))
}

// AbsorbSlice absorbs b[pos:limit], mirroring a position/limit-bounded byte
// buffer for callers that already manage their own read window into b.
func (p *Parser[V]) AbsorbSlice(b []byte, pos, limit int) ([]V, error) {
	return p.Absorb(b[pos:limit])
}

// AbsorbReader reads everything currently available from r (until EOF or
// a read error) and absorbs it in one call. It does not call Finish.
func (p *Parser[V]) AbsorbReader(r io.Reader) ([]V, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return p.Absorb(b)
}

// Finish signals end-of-input and runs the drive loop once more. After
// Finish, Absorb must not be called again.
func (p *Parser[V]) Finish() ([]V, error) {
	p.done = true
	p.buf.done = true
	p.logger.Trace("finish", "id", p.id)
	return p.drive()
}

// Snapshot returns an independent copy of the parser, including a cloned
// buffer, so an in-flight parse can be forked for speculative parsing.
// The in-progress frame stack is shallow-copied: any container already
// open at snapshot time shares its Frame[V] builder object between the
// two copies (see DESIGN.md, Open Question 3). This is transparent
// whenever Snapshot is taken between complete top-level values, which is
// the only case the session package relies on.
func (p *Parser[V]) Snapshot() *Parser[V] {
	cp := &Parser[V]{
		builder:              p.builder,
		buf:                  p.buf.clone(),
		pos:                  p.pos.clone(),
		mode:                 p.mode,
		done:                 p.done,
		state:                p.state,
		curr:                 p.curr,
		tokenStart:           p.tokenStart,
		lexingKey:            p.lexingKey,
		scratch:              append([]byte(nil), p.scratch...),
		unicodeAccum:         p.unicodeAccum,
		pendingHighSurrogate: p.pendingHighSurrogate,
		stack:                append([]frame[V](nil), p.stack...),
		id:                   uuid.New(),
		logger:               p.logger,
	}
	return cp
}

// midToken reports whether the parser is currently in the middle of
// lexing a string, number, or literal — i.e. whether tokenStart marks a
// real, not-yet-consumed token start that compaction must not pass.
func (p *Parser[V]) midToken() bool {
	return p.state >= int(stString) // every scalar-lexing state is numbered from stString onward
}

// drive runs the combined outer/grammar loop until it suspends (returns
// what's been produced so far) or hits a ParseError (returned along with
// whatever was produced earlier in this same call).
func (p *Parser[V]) drive() ([]V, error) {
	var emitted []V
	for {
		if p.state < 0 {
			suspended, perr := p.outerStep()
			if perr != nil {
				return emitted, perr
			}
			if suspended {
				return p.finishOrSuspend(emitted)
			}
			continue
		}

		// grammar mode: compact before parsing, using tokenStart as the
		// floor whenever a scalar token is already in progress so its
		// bytes are never discarded.
		floor := p.curr
		if p.midToken() {
			floor = p.tokenStart
		}
		newFloor := p.buf.compact(floor)
		shift := floor - newFloor
		if shift > 0 {
			p.curr -= shift
			p.tokenStart -= shift
			p.pos.pos -= shift
			p.logger.Trace("compacted buffer", "id", p.id, "shift", shift)
		}

		value, suspended, perr := p.runGrammar()
		if perr != nil {
			return emitted, perr
		}
		if suspended {
			return p.finishOrSuspend(emitted)
		}

		emitted = append(emitted, value)
		p.logger.Debug("emitted value", "id", p.id)
		switch p.mode {
		case UnwrapArray:
			p.state = outerArrAfterValue
		case ValueStream:
			p.state = outerReady
		default: // SingleValue
			p.state = outerEnd
		}
	}
}

// finishOrSuspend handles a suspend from either the outer scan or the
// synchronous parser identically: if more input may still arrive, it's a
// plain suspend; otherwise it decides whether the current state is a valid
// place to stop or a truncation.
func (p *Parser[V]) finishOrSuspend(emitted []V) ([]V, error) {
	if !p.done {
		return emitted, nil
	}
	if p.state == outerEnd {
		return emitted, nil
	}
	if p.state == outerReady {
		// Valid "nothing more" point for both ValueStream (zero or more
		// values is fine) and SingleValue (exactly one value must have
		// already been produced to reach outerEnd; reaching outerReady
		// at EOF without ever having produced one is a truncation).
		if p.mode == SingleValue && len(emitted) == 0 {
			return emitted, p.errHere("exhausted input")
		}
		return emitted, nil
	}
	return emitted, p.errHere("exhausted input")
}

// outerStep runs a single iteration of the outer (< 0 state) scan. It
// either consumes exactly one byte and updates p.state, falls through into
// grammar mode by setting p.state to stBeforeValue without consuming a
// byte, reports suspension (buffer exhaustion), or reports a ParseError.
func (p *Parser[V]) outerStep() (suspended bool, err *ParseError) {
	b, ok := p.buf.byteAt(p.curr)
	if !ok {
		return true, nil
	}

	switch b {
	case ' ', '\t', '\r':
		p.curr++
		return false, nil
	case '\n':
		p.pos.newline(p.curr)
		p.curr++
		return false, nil

	case '[':
		switch p.state {
		case outerPrestart:
			p.curr++
			p.state = outerArrStart
			return false, nil
		case outerEnd:
			return false, p.errHere("expected eof")
		case outerArrAfterValue:
			return false, p.errHere("expected , or ]")
		default:
			p.state = int(stBeforeValue)
			return false, nil
		}

	case ',':
		switch p.state {
		case outerArrAfterValue:
			p.curr++
			p.state = outerArrElement
			return false, nil
		case outerEnd:
			return false, p.errHere("expected eof")
		default:
			return false, p.errHere("expected json value")
		}

	case ']':
		if (p.state == outerArrAfterValue || p.state == outerArrStart) && p.mode == UnwrapArray {
			p.curr++
			p.state = outerEnd
			return false, nil
		}
		if p.state == outerEnd {
			return false, p.errHere("expected eof")
		}
		return false, p.errHere("expected json value")

	default:
		switch p.state {
		case outerEnd:
			return false, p.errHere("expected eof")
		case outerArrAfterValue:
			return false, p.errHere("expected ] or ,")
		}
		if p.state == outerPrestart && p.mode == UnwrapArray {
			p.mode = SingleValue
			p.logger.Trace("downgraded unwrap-array mode to single-value", "id", p.id)
		}
		p.state = int(stBeforeValue)
		return false, nil
	}
}

// errHere reports msg at p.curr. The offset is made absolute again by adding
// back every byte compaction has discarded so far.
func (p *Parser[V]) errHere(msg string) *ParseError {
	line, col := p.pos.lineCol(p.curr)
	abs := p.curr + p.buf.compactions*p.buf.compactionThreshold
	return newParseError(msg, abs, line, col)
}
