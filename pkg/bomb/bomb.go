// Package bomb holds the puzzle device: an ordered set of modules, a
// countdown, and strike bookkeeping. Everything random about a bomb is
// derived from one master seed, so a stored seed reproduces the exact
// device, rules and manuals included.
package bomb

import (
	"time"

	"github.com/fusebox-party/fusebox/pkg/rules"
)

// State is the bomb lifecycle state.
type State string

const (
	StateActive   State = "active"
	StateDefused  State = "defused"
	StateExploded State = "exploded"
)

const (
	// MaxStrikes is the number of incorrect actions that detonates the bomb.
	MaxStrikes = 3

	// MinModules and MaxModules bound the module count a bomb can carry.
	MinModules = 1
	MaxModules = 6
)

// configSeedStride spaces the per-module config seeds apart so adjacent
// modules never share a configuration stream.
const configSeedStride = 0x517CC1B727220A95

// moduleMix maps a module count to how many wires, button and terminal
// modules the bomb carries, in that order. Wires always come first.
var moduleMix = map[int][3]int{
	1: {1, 0, 0},
	2: {2, 0, 0},
	3: {2, 1, 0},
	4: {2, 1, 1},
	5: {3, 1, 1},
	6: {3, 2, 1},
}

// Bomb is the puzzle device. It is not internally synchronized; the
// owning session serializes all access.
type Bomb struct {
	id        string
	state     State
	strikes   int
	timeLimit time.Duration
	startTime time.Time
	remaining time.Duration
	seed      int64
	modules   []Module
}

// New assembles a bomb with the given module count, deriving every
// module's rules and configuration from the master seed. The module
// count is clamped to [MinModules, MaxModules].
func New(id string, timeLimit time.Duration, moduleCount int, seed int64, now time.Time) *Bomb {
	if moduleCount < MinModules {
		moduleCount = MinModules
	}
	if moduleCount > MaxModules {
		moduleCount = MaxModules
	}

	b := &Bomb{
		id:        id,
		state:     StateActive,
		timeLimit: timeLimit,
		startTime: now,
		remaining: timeLimit,
		seed:      seed,
		modules:   make([]Module, 0, moduleCount),
	}

	mix := moduleMix[moduleCount]
	slot := 0
	for i := 0; i < mix[0]; i++ {
		b.modules = append(b.modules, newWiresModule(i+1, seed, b.configSeed(slot)))
		slot++
	}
	for i := 0; i < mix[1]; i++ {
		b.modules = append(b.modules, newButtonModule(i+1, seed, b.configSeed(slot)))
		slot++
	}
	for i := 0; i < mix[2]; i++ {
		b.modules = append(b.modules, newTerminalModule(i+1, seed, b.configSeed(slot)))
		slot++
	}

	return b
}

func (b *Bomb) configSeed(slot int) int64 {
	return b.seed + int64(slot+1)*configSeedStride
}

// ID returns the bomb identifier.
func (b *Bomb) ID() string { return b.id }

// Seed returns the master seed the bomb was generated from.
func (b *Bomb) Seed() int64 { return b.seed }

// State returns the current lifecycle state.
func (b *Bomb) State() State { return b.state }

// Strikes returns the accumulated strike count.
func (b *Bomb) Strikes() int { return b.strikes }

// ModuleCount returns the number of modules on the bomb.
func (b *Bomb) ModuleCount() int { return len(b.modules) }

// Module returns the module at the given index.
func (b *Bomb) Module(i int) Module {
	if i < 0 || i >= len(b.modules) {
		return nil
	}
	return b.modules[i]
}

// RemainingSeconds returns the countdown as whole seconds.
func (b *Bomb) RemainingSeconds() int {
	return int(b.remaining / time.Second)
}

// Manuals returns the expert manual for every module, keyed by module key.
func (b *Bomb) Manuals() map[string]rules.Manual {
	manuals := make(map[string]rules.Manual, len(b.modules))
	for _, m := range b.modules {
		manuals[m.Key()] = m.Manual()
	}
	return manuals
}

// Tick recomputes the countdown from wall-clock elapsed time. Reaching
// zero detonates the bomb and clamps the countdown at zero.
func (b *Bomb) Tick(now time.Time) {
	if b.state != StateActive {
		return
	}
	b.remaining = b.timeLimit - now.Sub(b.startTime)
	if b.remaining <= 0 {
		b.remaining = 0
		b.state = StateExploded
	}
}

// Attempt applies a player action to the module at the given index. Out
// of range indexes, already-solved modules, actions of the wrong kind,
// and any attempt on a non-active bomb are ignored rather than erroring.
func (b *Bomb) Attempt(moduleIndex int, act Action, now time.Time) AttemptResult {
	b.Tick(now)

	result := AttemptResult{State: b.state, Strikes: b.strikes}
	if b.state != StateActive {
		return result
	}
	if moduleIndex < 0 || moduleIndex >= len(b.modules) {
		return result
	}
	module := b.modules[moduleIndex]
	result.ModuleKey = module.Key()
	if module.Solved() {
		return result
	}

	outcome, handled := module.attempt(act, b.RemainingSeconds())
	if !handled {
		return result
	}
	result.Accepted = true
	result.ModuleSolved = module.Solved()

	if outcome.held {
		result.Held = true
		result.Gauge = outcome.gauge
		return result
	}

	result.Correct = outcome.correct
	if outcome.correct {
		if b.allSolved() {
			b.state = StateDefused
		}
	} else {
		b.strikes++
		if b.strikes >= MaxStrikes {
			b.strikes = MaxStrikes
			b.state = StateExploded
		}
	}
	result.Strikes = b.strikes
	result.State = b.state
	return result
}

func (b *Bomb) allSolved() bool {
	for _, m := range b.modules {
		if !m.Solved() {
			return false
		}
	}
	return true
}

// Snapshot is the serializable view of the bomb. It redacts nothing a
// defuser may see and nothing more: module configurations, timer and
// strikes, never the frozen answers.
type Snapshot struct {
	ID                   string           `json:"id"`
	State                State            `json:"state"`
	Strikes              int              `json:"strikes"`
	MaxStrikes           int              `json:"maxStrikes"`
	TimeLimitSeconds     int              `json:"timeLimitSeconds"`
	TimeRemainingSeconds int              `json:"timeRemainingSeconds"`
	Modules              []ModuleSnapshot `json:"modules"`
}

// Snapshot returns a copy of the bomb state safe to serialize outside
// the owning session's lock.
func (b *Bomb) Snapshot() Snapshot {
	snap := Snapshot{
		ID:                   b.id,
		State:                b.state,
		Strikes:              b.strikes,
		MaxStrikes:           MaxStrikes,
		TimeLimitSeconds:     int(b.timeLimit / time.Second),
		TimeRemainingSeconds: b.RemainingSeconds(),
		Modules:              make([]ModuleSnapshot, 0, len(b.modules)),
	}
	for _, m := range b.modules {
		snap.Modules = append(snap.Modules, m.Snapshot())
	}
	return snap
}
