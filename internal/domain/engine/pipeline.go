package engine

type PipelinePhase string

const (
	PhaseBase     PipelinePhase = "base"
	PhaseOptional PipelinePhase = "optional"
	PhaseCompile  PipelinePhase = "compile"
)
