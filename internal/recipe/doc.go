// Package recipe models declarative container image build recipes.
//
// A [Recipe] is an ordered list of stages. Each stage starts from a base
// image (a registry reference or a local OCI archive) and applies a list
// of steps: shell commands, file copies, and modifiers for the shell,
// working directory, and environment. Recipes are loaded from YAML or
// synthesized programmatically.
//
// [Training] builds the canonical training image recipe: it installs the
// language packages every training container needs, copies the framework
// source tree and build file into the image, runs the build, layers the
// user's model definition under /model, and sets the module search path.
package recipe
