package worker

// Builtins returns the small set of example functions exercised by the
// end-to-end scenarios of spec §8: a one-argument identity function
// (scenario 1) and a two-argument byte-concatenation function used to
// exercise multi-argument matching and locality tie-breaking. Each
// returns one result, so each registers with arity 1.
func Builtins() []Registration {
	return []Registration{
		{Name: "id", Arity: 1, Fn: identity},
		{Name: "concat", Arity: 1, Fn: concat},
	}
}

func identity(args [][]byte) ([]Result, error) {
	return []Result{{Data: args[0]}}, nil
}

func concat(args [][]byte) ([]Result, error) {
	out := make([]byte, 0, len(args[0])+len(args[1]))
	out = append(out, args[0]...)
	out = append(out, args[1]...)
	return []Result{{Data: out}}, nil
}
