package tessera

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action    string   `json:"action"`
	Label     string   `json:"label,omitempty"`
	Key       string   `json:"key,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
	Text      string   `json:"text,omitempty"`
	Frames    int      `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected key events and screenshots across frames
// for automated visual testing. Attach to an Instance via SetTestRunner.
//
// Supported actions: "key", "keydown", "keyup" (with "key" naming an
// ebiten.Key such as "ArrowLeft" and optional "modifiers" from "shift",
// "ctrl", "alt", "meta"), "type" (with "text"), "wait" (with "frames"),
// "screenshot" (with "label") and "quit".
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

var modifierNames = map[string]KeyModifiers{
	"shift": ModShift,
	"ctrl":  ModCtrl,
	"alt":   ModAlt,
	"meta":  ModMeta,
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to an Instance via SetTestRunner. Key and modifier names
// are checked up front.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for n, st := range script.Steps {
		switch st.Action {
		case "key", "keydown", "keyup":
			if _, ok := keyByName(st.Key); !ok {
				return nil, fmt.Errorf("parse test script: step %d: unknown key %q", n, st.Key)
			}
		}
		for _, m := range st.Modifiers {
			if _, ok := modifierNames[m]; !ok {
				return nil, fmt.Errorf("parse test script: step %d: unknown modifier %q", n, m)
			}
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the instance. The runner's step
// method is called at the start of every Update.
func (i *Instance) SetTestRunner(runner *TestRunner) {
	i.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

func (st testStep) mods() KeyModifiers {
	var m KeyModifiers
	for _, name := range st.Modifiers {
		m |= modifierNames[name]
	}
	return m
}

// step advances the test runner by one frame. Called from Instance.Update.
func (r *TestRunner) step(i *Instance) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(i.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		i.Screenshot(st.Label)
	case "key":
		k, _ := keyByName(st.Key)
		i.InjectKey(k, st.mods())
	case "keydown":
		k, _ := keyByName(st.Key)
		i.InjectKeyDown(k, st.mods())
	case "keyup":
		k, _ := keyByName(st.Key)
		i.InjectKeyUp(k, st.mods())
	case "type":
		i.InjectText(st.Text)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "quit":
		i.Quit()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(i.injectQueue) == 0 {
		r.done = true
	}
}
