// Command grammarfst inspects compiled automata and drives the stitching
// engine from the terminal: dump a single automaton, walk the composite
// graph breadth first, or explore it interactively.
package main

func main() {
	Execute()
}
