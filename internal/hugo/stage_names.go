package hugo

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StagePrepareOutput    StageName = "prepare_output"
	StageCustomizeSchema  StageName = "customize_schema"
	StageSourceContent    StageName = "source_content"
	StageCreatePages      StageName = "create_pages"
	StageConfigureBundler StageName = "configure_bundler"
	StageWriteOutput      StageName = "write_output"
)

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}
