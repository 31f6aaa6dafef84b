package gdocai

// Config identifies the Document AI processor used for recognition.
type Config struct {
	ProjectID       string `yaml:"project_id" mapstructure:"project_id"`
	Location        string `yaml:"location" mapstructure:"location"`
	ProcessorID     string `yaml:"processor_id" mapstructure:"processor_id"`
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"` // Falls back to GOOGLE_APPLICATION_CREDENTIALS
}

// ProcessorName returns the full resource name of the processor.
func (c *Config) ProcessorName() string {
	return "projects/" + c.ProjectID + "/locations/" + c.Location + "/processors/" + c.ProcessorID
}

// Endpoint returns the regional API endpoint for the processor location.
func (c *Config) Endpoint() string {
	return c.Location + "-documentai.googleapis.com:443"
}
