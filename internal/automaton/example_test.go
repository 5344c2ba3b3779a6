package automaton_test

import (
	"fmt"

	"residue/internal/automaton"
)

func ExampleMatches() {
	ok, _ := automaton.Matches(3, 0, "12")
	fmt.Println(ok)
	ok, _ = automaton.Matches(4, 1, "10")
	fmt.Println(ok)
	// Output:
	// true
	// false
}

func ExampleState_Step() {
	s, _ := automaton.Initial(7, 2)
	for _, x := range []int{1, 6} {
		s, _ = s.Step(x)
		fmt.Println(s, s.Accepting())
	}
	// Output:
	// R(7, 2, 1) false
	// R(7, 2, 2) true
}
