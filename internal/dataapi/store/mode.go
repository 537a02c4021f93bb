package store

// StagingEnvironment disables partition scoping: a single logical date partition
// is not guaranteed to exist in staging deployments.
const StagingEnvironment = "STAGING"

// ExecutionMode determines how the store routes a query: scoped to the partition
// holding one series date, or scanning across all partitions.
type ExecutionMode struct {
	PartitionKey   string
	CrossPartition bool
}

// SelectExecutionMode picks the execution mode for a deployment environment. The
// same mode is applied uniformly to every query issued for a given request.
func SelectExecutionMode(environment string, date string) ExecutionMode {
	if environment == StagingEnvironment {
		return ExecutionMode{CrossPartition: true}
	}
	return ExecutionMode{PartitionKey: date}
}
