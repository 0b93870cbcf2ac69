/*
Package pulsesim simulates pulse propagation networks: circuits built from a
broadcaster, flip-flops and conjunctions connected by directed wires.

A Network is built once from a list of ModuleSpec and owns all module state. A
Simulator drives the network one button press at a time: each press injects a
Low pulse into the broadcaster and drains the resulting cascade in strict
arrival order.

On top of the press loop, the package provides fingerprint based period
detection, which lets Run jump over repeated states and FirstPress give up on
conditions that can no longer happen, and
BranchLCM, which answers "when does the target first receive Low" for circuits
made of independent counters by combining per-branch periods with their least
common multiple.

Textual netlists in the

	broadcaster -> a, b
	%a -> inv
	&inv -> out

format are parsed by the internal netlist package; the core only consumes
already tokenized module specs.
*/
package pulsesim
