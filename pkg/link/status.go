package link

import (
	"path/filepath"

	"github.com/arthur-debert/expobridge/pkg/records"
)

// State describes a link without changing it.
type State string

const (
	StateLinked      State = "linked"
	StateMissing     State = "missing"
	StateWrongTarget State = "wrong-target"
	StateNotAlias    State = "not-alias"
	StateError       State = "error"
)

// LinkStatus is the observed state of one package link.
type LinkStatus struct {
	Name   string
	Link   string
	Target string
	// Actual is the current alias destination, when there is one.
	Actual string
	State  State
	Err    error
}

// Status inspects the link of every package. It never modifies anything.
func (r *Reconciler) Status(dependencyRoot string, packages []records.StagedPackage) []LinkStatus {
	out := make([]LinkStatus, 0, len(packages))
	for _, pkg := range packages {
		link := filepath.Join(dependencyRoot, filepath.FromSlash(pkg.Name))
		target, err := filepath.Abs(pkg.StagingPath)
		if err != nil {
			target = pkg.StagingPath
		}
		st := LinkStatus{Name: pkg.Name, Link: link, Target: target}

		info, err := r.fs.Lstat(link)
		switch {
		case isNotExist(err):
			st.State = StateMissing
		case err != nil:
			st.State, st.Err = StateError, err
		case !isAlias(info, r.family):
			st.State = StateNotAlias
		default:
			actual, err := r.fs.Readlink(link)
			st.Actual = actual
			switch {
			case err != nil:
				st.State, st.Err = StateError, err
			case sameTarget(actual, target, link, r.family):
				st.State = StateLinked
			default:
				st.State = StateWrongTarget
			}
		}
		out = append(out, st)
	}
	return out
}
