// Command swarmrun runs a swarm conversation from the command line: it
// accepts a task string plus an agent roster (YAML) and prints the
// transcript and termination reason. Exit code 0 on clean termination,
// non-zero when the orchestration aborts.
package main

func main() {
	Execute()
}
