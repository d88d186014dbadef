package bomb

import (
	"testing"

	"github.com/fusebox-party/fusebox/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findButtonModule scans seeds until a bomb whose button module has the
// wanted frozen action turns up. Rule generation is deterministic, so
// the scan is stable across runs.
func findButtonModule(t *testing.T, want rules.ButtonAction) (*Bomb, int, *ButtonModule) {
	t.Helper()
	for seed := int64(0); seed < 500; seed++ {
		b := newTestBomb(t, 3, seed)
		for i := 0; i < b.ModuleCount(); i++ {
			if m, ok := b.Module(i).(*ButtonModule); ok && m.CorrectAction() == want {
				return b, i, m
			}
		}
	}
	t.Fatalf("no button module with action %v in seed range", want)
	return nil, 0, nil
}

func TestButton_PressResolvesImmediately(t *testing.T) {
	b, idx, m := findButtonModule(t, rules.ButtonActionPress)

	result := b.Attempt(idx, PressButton{}, testStart)

	assert.True(t, result.Accepted)
	assert.True(t, result.Correct)
	assert.True(t, m.Solved())
	assert.Equal(t, 0, result.Strikes)
}

func TestButton_HoldDrawsGauge(t *testing.T) {
	b, idx, m := findButtonModule(t, rules.ButtonActionHold)

	result := b.Attempt(idx, HoldButton{}, testStart)

	assert.True(t, result.Accepted)
	assert.True(t, result.Held)
	assert.NotEmpty(t, result.Gauge)
	assert.False(t, result.Correct)
	assert.False(t, m.Solved())
	assert.Equal(t, 0, result.Strikes, "starting a hold is not an attempt")
	assert.True(t, m.Snapshot().ButtonHeld)
}

func TestButton_ReleaseOnTargetDigit(t *testing.T) {
	b, idx, m := findButtonModule(t, rules.ButtonActionHold)

	hold := b.Attempt(idx, HoldButton{}, testStart)
	require.True(t, hold.Held)

	// 300s limit: pick an elapsed time whose remaining seconds end in
	// the target digit.
	target := m.TargetDigit()
	remaining := 290 + target
	if remaining > 300 {
		remaining -= 10
	}
	elapsed := 300 - remaining
	release := b.Attempt(idx, ReleaseButton{}, testStart.Add(secondsDuration(elapsed)))

	assert.True(t, release.Accepted)
	assert.True(t, release.Correct)
	assert.True(t, m.Solved())
}

func TestButton_WrongReleaseStrikesAndResets(t *testing.T) {
	b, idx, m := findButtonModule(t, rules.ButtonActionHold)

	hold := b.Attempt(idx, HoldButton{}, testStart)
	require.True(t, hold.Held)

	target := m.TargetDigit()
	wrongRemaining := 290 + (target+1)%10
	if wrongRemaining > 300 {
		wrongRemaining -= 10
	}
	elapsed := 300 - wrongRemaining
	release := b.Attempt(idx, ReleaseButton{}, testStart.Add(secondsDuration(elapsed)))

	assert.True(t, release.Accepted)
	assert.False(t, release.Correct)
	assert.Equal(t, 1, release.Strikes)
	assert.False(t, m.Solved())
	assert.False(t, m.Snapshot().ButtonHeld, "wrong release resets the pressed state")
}

func TestButton_HoldOnPressButtonStrikesAtRelease(t *testing.T) {
	b, idx, m := findButtonModule(t, rules.ButtonActionPress)

	// Holding must not shortcut the press-vs-hold decision: the module
	// enters the held state like any other hold.
	hold := b.Attempt(idx, HoldButton{}, testStart)

	assert.True(t, hold.Accepted)
	assert.True(t, hold.Held)
	assert.NotEmpty(t, hold.Gauge)
	assert.False(t, hold.Correct)
	assert.False(t, m.Solved())
	assert.Equal(t, 0, hold.Strikes)

	// Releasing a press-frozen button strikes no matter the digit.
	release := b.Attempt(idx, ReleaseButton{}, testStart)

	assert.True(t, release.Accepted)
	assert.False(t, release.Correct)
	assert.Equal(t, 1, release.Strikes)
	assert.False(t, m.Solved())
	assert.False(t, m.Snapshot().ButtonHeld)

	// A plain press afterwards still solves the module.
	press := b.Attempt(idx, PressButton{}, testStart)

	assert.True(t, press.Correct)
	assert.True(t, m.Solved())
}

func TestButton_ReleaseWithoutHoldIgnored(t *testing.T) {
	b, idx, _ := findButtonModule(t, rules.ButtonActionHold)

	result := b.Attempt(idx, ReleaseButton{}, testStart)

	assert.False(t, result.Accepted)
	assert.Equal(t, 0, result.Strikes)
}

func TestButton_RepressDeterministic(t *testing.T) {
	// Two bombs from the same seed must draw the same gauge sequence
	// across distinct presses.
	first, idx, m1 := findButtonModule(t, rules.ButtonActionHold)
	second := New("bomb-twin", 300*secondsDuration(1), first.ModuleCount(), first.Seed(), testStart)
	m2, ok := second.Module(idx).(*ButtonModule)
	require.True(t, ok)

	for press := 0; press < 3; press++ {
		r1 := first.Attempt(idx, HoldButton{}, testStart)
		r2 := second.Attempt(idx, HoldButton{}, testStart)
		require.True(t, r1.Held)
		assert.Equal(t, r1.Gauge, r2.Gauge, "press %d diverged", press+1)
		assert.Equal(t, m1.TargetDigit(), m2.TargetDigit())

		// Release on a guaranteed-wrong digit to re-arm both modules.
		wrongRemaining := 290 + (m1.TargetDigit()+1)%10
		if wrongRemaining > 300 {
			wrongRemaining -= 10
		}
		at := testStart.Add(secondsDuration(300 - wrongRemaining))
		first.Attempt(idx, ReleaseButton{}, at)
		second.Attempt(idx, ReleaseButton{}, at)
	}
}
