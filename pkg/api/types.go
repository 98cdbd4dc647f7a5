package api

const (
	DefaultFileInclude = "**/*"
	DefaultJobType     = "freestyle"

	StepTypeExposeEnv = "expose-env"
	StepTypeTemplate  = "template"
	StepTypeGenerate  = "generate"
	StepTypeRun       = "run"

	ProducerTypeStatic   = "static"
	ProducerTypeDotenv   = "dotenv"
	ProducerTypeTemplate = "template"
	ProducerTypeCommand  = "command"
	ProducerTypeYAML     = "yaml"
)

// Job is the job file format.
type Job struct {
	Type       string            `yaml:"type"`
	InheritEnv *bool             `yaml:"inheritEnv,omitempty"` // default true
	Env        map[string]string `yaml:"env"`
	Steps      []StepConfig      `yaml:"steps"`

	// Set by the loader, not from YAML.
	Name     string `yaml:"-"`
	Dir      string `yaml:"-"`
	FilePath string `yaml:"-"`
}

// JobType returns the declared job type or DefaultJobType.
func (j *Job) JobType() string {
	if j.Type == "" {
		return DefaultJobType
	}
	return j.Type
}

// InheritsEnv reports whether builds of this job start from the process environment.
func (j *Job) InheritsEnv() bool {
	return j.InheritEnv == nil || *j.InheritEnv
}

// StepConfig defines a single step within a job.
type StepConfig struct {
	Name      string           `yaml:"name"`
	Type      string           `yaml:"type"`
	ExposeEnv *ExposeEnvConfig `yaml:"exposeEnv,omitempty"`
	Template  *TemplateConfig  `yaml:"template,omitempty"`
	Generate  *GenerateConfig  `yaml:"generate,omitempty"`
	Run       *RunConfig       `yaml:"run,omitempty"`
}

// ExposeEnvConfig configures the expose-env step.
type ExposeEnvConfig struct {
	Producers []ProducerConfig `yaml:"producers"`
}

// ProducerConfig defines one environment producer of an expose-env step.
type ProducerConfig struct {
	Type     string                  `yaml:"type"`
	Static   *StaticProducerConfig   `yaml:"static,omitempty"`
	Dotenv   *DotenvProducerConfig   `yaml:"dotenv,omitempty"`
	Template *TemplateProducerConfig `yaml:"template,omitempty"`
	Command  *CommandProducerConfig  `yaml:"command,omitempty"`
	YAML     *YAMLProducerConfig     `yaml:"yaml,omitempty"`
}

// StaticProducerConfig configures a producer of literal variables.
type StaticProducerConfig struct {
	Vars map[string]string `yaml:"vars"`
}

// DotenvProducerConfig configures a producer reading .env files.
type DotenvProducerConfig struct {
	Files    []string `yaml:"files"`
	Optional bool     `yaml:"optional"`
}

// TemplateProducerConfig configures a producer rendering values from the current environment.
type TemplateProducerConfig struct {
	Vars map[string]string `yaml:"vars"`
}

// CommandProducerConfig configures a producer reading KEY=VALUE lines from a command.
type CommandProducerConfig struct {
	Run string `yaml:"run"`
}

// YAMLProducerConfig configures a producer flattening a YAML mapping file.
type YAMLProducerConfig struct {
	File   string `yaml:"file"`
	Prefix string `yaml:"prefix"`
}

// FileFilter defines include/exclude glob patterns.
type FileFilter struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// TemplateConfig configures the template step.
type TemplateConfig struct {
	Files FileFilter `yaml:"files"`
}

// GenerateConfig configures the generate step.
type GenerateConfig struct {
	Output   string `yaml:"output"`
	Template string `yaml:"template"`
}

// RunConfig configures the run step.
type RunConfig struct {
	Command string `yaml:"command"`
}
