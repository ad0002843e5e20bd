package prepare

import (
	"encoding/json"
	"fmt"
	"maps"

	"fut/internal/schema"
	"fut/internal/testcase"
	"fut/pkg/logging"
)

// Preparer validates documents and allocates their test cases in an arena.
type Preparer struct {
	validator *schema.Validator
	arena     *testcase.Arena
}

// New creates a Preparer.
func New(validator *schema.Validator, arena *testcase.Arena) *Preparer {
	return &Preparer{validator: validator, arena: arena}
}

// Arena returns the arena the preparer allocates in.
func (p *Preparer) Arena() *testcase.Arena { return p.arena }

// Prepare turns one document into its test cases. Every returned case is Valid or Invalid.
func (p *Preparer) Prepare(doc Document) []*testcase.TestCase {
	if doc.Err != nil {
		tc := p.arena.New(doc.Source)
		p.invalidate(tc, doc.Err.Error())
		return []*testcase.TestCase{tc}
	}

	if m, ok := doc.Value.(map[string]any); ok {
		if _, isSuite := m[testcase.SuiteMarker]; isSuite {
			return p.prepareSuite(doc.Source, m)
		}
	}

	tc := p.arena.New(doc.Source)
	p.prepareOne(tc, doc.Value)
	return []*testcase.TestCase{tc}
}

// PrepareAll prepares documents in order.
func (p *Preparer) PrepareAll(docs []Document) []*testcase.TestCase {
	var cases []*testcase.TestCase
	for _, d := range docs {
		cases = append(cases, p.Prepare(d)...)
	}
	return cases
}

func (p *Preparer) prepareSuite(source string, m map[string]any) []*testcase.TestCase {
	container := p.arena.New(source)
	_ = container.MarkSuite()

	name := fmt.Sprint(m[testcase.SuiteMarker])
	tests, _ := m["tests"].([]any)
	if len(tests) == 0 {
		tc := p.arena.NewMember(container, 1)
		p.invalidate(tc, fmt.Sprintf("suite %q declares no tests", name))
		return []*testcase.TestCase{tc}
	}

	shared, hasShared := m["context"]
	logging.Debug("Prepare", "Expanding suite %q from %s into %d tests", name, source, len(tests))

	cases := make([]*testcase.TestCase, 0, len(tests))
	for i, element := range tests {
		if hasShared {
			if em, ok := element.(map[string]any); ok {
				if _, own := em["context"]; !own {
					em = maps.Clone(em)
					em["context"] = shared
					element = em
				}
			}
		}
		tc := p.arena.NewMember(container, i+1)
		p.prepareOne(tc, element)
		cases = append(cases, tc)
	}
	return cases
}

func (p *Preparer) prepareOne(tc *testcase.TestCase, value any) {
	if err := p.validator.Validate(value); err != nil {
		p.invalidate(tc, err.Error())
		return
	}

	def, err := decodeDefinition(value)
	if err != nil {
		p.invalidate(tc, err.Error())
		return
	}
	tc.Definition = def
	tc.Expectations = testcase.NewExpectations(def.Expected)

	instance, err := ResolveInstance(tc.Source, def)
	if err != nil {
		p.invalidate(tc, err.Error())
		return
	}
	tc.InstancePath = instance
	tc.Args = RenderArgs(def.Context)
	_ = tc.MarkValid()
}

func (p *Preparer) invalidate(tc *testcase.TestCase, reason string) {
	logging.Debug("Prepare", "Test case %s is invalid: %s", tc.Name(), reason)
	_ = tc.MarkInvalid(reason)
}

func decodeDefinition(value any) (testcase.Definition, error) {
	var def testcase.Definition
	raw, err := json.Marshal(value)
	if err != nil {
		return def, fmt.Errorf("failed to encode definition: %w", err)
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return def, fmt.Errorf("failed to decode definition: %w", err)
	}
	return def, nil
}
