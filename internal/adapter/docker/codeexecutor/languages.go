package codeexecutor

import (
	"fmt"
	"strings"

	"github.com/codecoffee/judge/internal/static/errs"
)

// LanguageConfig describes everything the generic executor needs to judge
// one language: where the source lives, how to compile it and how to run it.
// Commands are argument vectors, never shell strings.
type LanguageConfig struct {
	Name          string
	FileExtension string
	MainFileName  string
	Image         string
	// CompileCmd runs once in the working directory with a bounded timeout;
	// empty means the language needs no compile step. Artifacts it writes
	// stay in the working directory for the run step.
	CompileCmd []string
	RunCmd     []string
}

var languageRegistry = map[string]LanguageConfig{
	"python": {
		Name:          "python",
		FileExtension: "py",
		MainFileName:  "solution.py",
		Image:         "python:3.9-alpine",
		RunCmd:        []string{"python3", "solution.py"},
	},
	"javascript": {
		Name:          "javascript",
		FileExtension: "js",
		MainFileName:  "solution.js",
		Image:         "node:16-alpine",
		RunCmd:        []string{"node", "solution.js"},
	},
	"typescript": {
		Name:          "typescript",
		FileExtension: "ts",
		MainFileName:  "solution.ts",
		Image:         "node:18-alpine",
		CompileCmd:    []string{"npx", "tsc", "solution.ts", "--target", "es2020", "--module", "commonjs", "--outDir", "."},
		RunCmd:        []string{"node", "solution.js"},
	},
	"java": {
		Name:          "java",
		FileExtension: "java",
		MainFileName:  "Main.java",
		Image:         "openjdk:17-alpine",
		CompileCmd:    []string{"javac", "Main.java"},
		RunCmd:        []string{"java", "-cp", ".", "Main"},
	},
	"cpp": {
		Name:          "cpp",
		FileExtension: "cpp",
		MainFileName:  "solution.cpp",
		Image:         "gcc:12.4.0-bookworm",
		CompileCmd:    []string{"g++", "-std=c++17", "-O2", "-o", "solution", "solution.cpp"},
		RunCmd:        []string{"./solution"},
	},
	"c": {
		Name:          "c",
		FileExtension: "c",
		MainFileName:  "solution.c",
		Image:         "gcc:12.4.0-bookworm",
		CompileCmd:    []string{"gcc", "-std=c11", "-O2", "-o", "solution", "solution.c"},
		RunCmd:        []string{"./solution"},
	},
}

var languageAliases = map[string]string{
	"python3": "python",
	"js":      "javascript",
	"ts":      "typescript",
	"c++":     "cpp",
}

// canonical order for SupportedLanguages, kept stable for API responses
var languageOrder = []string{"python", "javascript", "typescript", "java", "cpp", "c"}

// resolveLanguage maps a case-insensitive language alias to its config
func resolveLanguage(language string) (LanguageConfig, error) {
	name := strings.ToLower(strings.TrimSpace(language))
	if canonical, ok := languageAliases[name]; ok {
		name = canonical
	}
	cfg, ok := languageRegistry[name]
	if !ok {
		return LanguageConfig{}, fmt.Errorf("%w: %s", errs.ErrUnsupportedLanguage, language)
	}
	return cfg, nil
}

// SupportedLanguages lists the canonical language names
func SupportedLanguages() []string {
	out := make([]string, len(languageOrder))
	copy(out, languageOrder)
	return out
}
