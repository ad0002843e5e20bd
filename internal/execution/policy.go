package execution

import "runtime"

// reservedCores are left to the rest of the machine; the validator is CPU and memory hungry.
const reservedCores = 2

// WorkerCount returns min(configuredMax, max(1, cores-2)), never less than one.
func WorkerCount(configuredMax, cores int) int {
	available := max(1, cores-reservedCores)
	if configuredMax < 1 {
		return available
	}
	return min(configuredMax, available)
}

// DefaultWorkerCount applies WorkerCount to the cores of this machine.
func DefaultWorkerCount(configuredMax int) int {
	return WorkerCount(configuredMax, runtime.NumCPU())
}
