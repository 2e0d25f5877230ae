// Package stage holds the live object registry of one stage run.
//
// A Stage owns every object in an arena keyed by generational entity ids and
// keeps a list of entities per object kind, rebuilt after every load and
// removal. Handles held across a removal simply stop resolving; nothing
// dangles.
//
// Usage:
//
//	st := stage.New(tuning.Strengths())
//	if err := st.Load(descs); err != nil {
//		return err
//	}
//	st.Activate(3)
//	for _, ev := range st.Events() {
//		// dispose visuals for removed objects
//	}
//
// Stages are not safe for concurrent use. The tick orchestrator is their only
// writer while a stage runs; editors mutate between ticks.
package stage
