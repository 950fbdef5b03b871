package extract

import "fmt"

// Stage names the step of a resource's processing that failed.
type Stage string

const (
	StageList          Stage = "list"
	StageFetch         Stage = "fetch"
	StageEncode        Stage = "encode"
	StageWrite         Stage = "write"
	StageSelect        Stage = "select specification"
	StageSpecification Stage = "fetch specification"
	StageIndex         Stage = "index"
)

// StageError is the failure of one resource. Name is empty for listing failures.
type StageError struct {
	Kind  string
	Name  string
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %q: %s: %v", e.Kind, e.Name, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
