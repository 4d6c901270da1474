// Package configs manages the envseal project configuration.
//
// A project is any directory containing a .envseal directory. Its settings
// live in .envseal/config.toml:
//
//	[project]
//	project_uuid = "..."
//	name = "billing"
//
//	[encryption]
//	algorithm = "xsalsa20poly1305"
//	concurrency = 4
//
//	[sensitive]
//	keys = ["PASSWORD", "SECRET", "TOKEN"]
//	suffixes = ["_PASSWORD", "_TOKEN"]
//	patterns = ["AWS_*_KEY"]
//	exclude = ["PUBLIC_TOKEN_URL"]
//
//	[key]
//	env = "ENVSEAL_KEY"
//	file = ".envseal/dev.key"
//	salt = "..."
//
//	[files]
//	include = ["**/.env", "**/.env.*", "**/*.env"]
//
// Every section is optional. Missing values keep the defaults from Default,
// so the tool also works in a directory that was never initialised. Unknown
// keys are rejected with errors.ErrInvalidConfig to catch typos.
//
// Call InitProjectSettings before reading ProjectEnvsealSettings. It walks
// up the directory tree to find the nearest .envseal directory.
package configs
