package repository

import "strings"

type queryOptions struct {
	include []string
	tracked bool
}

type QueryOption func(*queryOptions)

// Include eager-loads the named relations. Names may be passed separately
// or comma-separated; nested relations use dots ("Owner.Team").
func Include(relations ...string) QueryOption {
	return func(o *queryOptions) {
		for _, rel := range relations {
			for _, name := range strings.Split(rel, ",") {
				if name = strings.TrimSpace(name); name != "" {
					o.include = append(o.include, name)
				}
			}
		}
	}
}

// Tracked registers the results in the session so in-place changes are
// written by the next commit.
func Tracked() QueryOption {
	return func(o *queryOptions) {
		o.tracked = true
	}
}

func buildOptions(opts []QueryOption) queryOptions {
	var o queryOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
