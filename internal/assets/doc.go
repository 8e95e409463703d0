// Package assets provides the default settings and variables files.
//
// # Loader Architecture
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - reads the defaults compiled into the binary
//	    ├── FilesystemLoader  - reads a defaults directory on disk
//	    └── Resolver          - custom directory first, embedded fallback
//
// The defaults directory holds:
//
//	{defaultsDir}/
//	├── panwrap.yaml     # every per-document setting and its default
//	├── variables.yaml   # variables appended to each working copy
//	└── *.tex, *.yaml    # templates referenced as {PANWRAP}/name.tex
//
// LoadLayers decodes the first two into a config.Schema and a variables
// map. Template paths written as {PANWRAP}/... resolve against Dir.
//
// # Security
//
// File names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within the directory.
package assets
