package models

// OptionKind is the declared type of a command option
type OptionKind string

const (
	OptionKindString        OptionKind = "string"
	OptionKindInteger       OptionKind = "integer"
	OptionKindUserReference OptionKind = "user"
	OptionKindSubCommand    OptionKind = "subcommand"
)

// OptionSpec describes one option in a command's schema.
// Options is only set for OptionKindSubCommand.
type OptionSpec struct {
	Kind        OptionKind   `json:"kind"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Required    bool         `json:"required"`
	Options     []OptionSpec `json:"options,omitempty"`
}

// CommandDescriptor is the static identity of a command, used for platform
// registration and introspection
type CommandDescriptor struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Options     []OptionSpec `json:"options"`
	// AdminOnly restricts the command to members with administrator permission
	AdminOnly bool `json:"admin_only"`
	// DMPermission allows the command to be used in direct messages
	DMPermission bool `json:"dm_permission"`
}
