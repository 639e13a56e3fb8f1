package fuzztests

import (
	"context"
	"testing"
	"time"

	"mend/internal/check"
	"mend/internal/fixers"
	"mend/internal/project"
	"mend/internal/repair"
	"mend/internal/testkit"
)

const (
	maxSessionInput = 4 << 10
	fuzzCeiling     = 10
)

const fuzzManifest = "[package]\nname = \"fuzz\"\nversion = \"0.1.0\"\nlicense = \"MIT\"\ndescription = \"Fuzz target.\"\n"

// FuzzRepairSession runs the builtin check and fix cycle over an arbitrary
// source unit and checks the session bookkeeping.
func FuzzRepairSession(f *testing.F) {
	addCorpusSeeds(f)
	now := func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	f.Fuzz(func(t *testing.T, input []byte) {
		st := project.NewState("fuzz", project.WithClock(now))
		st.Add("package.toml", project.KindManifest, []byte(fuzzManifest))
		st.Add("R/fuzz.R", project.KindSource, clampInput(input, maxSessionInput))

		eng := repair.New(fixers.Builtin(fixers.Options{Now: now}), check.New(check.Options{}),
			repair.Options{MaxIterations: fuzzCeiling, Clock: now})
		sess, err := eng.Run(context.Background(), st)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if err := testkit.CheckSessionInvariants(sess, fuzzCeiling); err != nil {
			t.Fatalf("session invariants: %v", err)
		}

		// откат всей сессии возвращает исходное содержимое
		if _, err := st.Rollback(project.BySession(sess.ID)); err != nil {
			t.Fatalf("rollback: %v", err)
		}
		u, ok := st.Get("R/fuzz.R")
		if !ok || string(u.Content) != string(clampInput(input, maxSessionInput)) {
			t.Fatalf("rollback did not restore the source unit")
		}
	})
}
