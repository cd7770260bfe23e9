package common

// ModuleFileName is the name of a module's configuration file, loaded by
// chaisema/config.
const ModuleFileName string = "chai-mod.toml"

// SourceFileExt is the file extension recognized for source files.
const SourceFileExt string = ".chai"
