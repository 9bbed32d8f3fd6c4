package recipe

import "runtime"

// Compiler identifies a compiler family.
type Compiler string

// Known compiler families.
const (
	GCC        Compiler = "gcc"
	Clang      Compiler = "clang"
	AppleClang Compiler = "apple-clang"
	MSVC       Compiler = "msvc"
)

// Standard library variants.
const (
	LibStdCxx   = "libstdc++"
	LibStdCxx11 = "libstdc++11"
	LibCxx      = "libc++"
)

// Toolchain holds the host toolchain facts of an invocation. The recipe only
// reads them.
type Toolchain struct {
	OS              string   `json:"os" yaml:"os" toml:"os" mapstructure:"os"`
	Arch            string   `json:"arch" yaml:"arch" toml:"arch" mapstructure:"arch"`
	Compiler        Compiler `json:"compiler" yaml:"compiler" toml:"compiler" mapstructure:"compiler"`
	CompilerVersion string   `json:"compiler_version,omitempty" yaml:"compiler_version,omitempty" toml:"compiler_version" mapstructure:"compiler_version"`
	Libcxx          string   `json:"libcxx,omitempty" yaml:"libcxx,omitempty" toml:"libcxx" mapstructure:"libcxx"`
	BuildType       string   `json:"build_type,omitempty" yaml:"build_type,omitempty" toml:"build_type" mapstructure:"build_type"`
}

// PinsLibcxx reports whether the produced artifact must be compiled with an
// explicit -stdlib flag: clang can link either libstdc++ or libc++, and a
// libc++ selection has to be forced to match dependents.
func (t Toolchain) PinsLibcxx() bool {
	return t.Compiler == Clang && t.Libcxx == LibCxx
}

// Merge returns t with every empty field filled from fallback.
func (t Toolchain) Merge(fallback Toolchain) Toolchain {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&t.OS, fallback.OS)
	fill(&t.Arch, fallback.Arch)
	if t.Compiler == "" {
		t.Compiler = fallback.Compiler
	}
	fill(&t.CompilerVersion, fallback.CompilerVersion)
	fill(&t.Libcxx, fallback.Libcxx)
	fill(&t.BuildType, fallback.BuildType)
	return t
}

func (t Toolchain) settings() map[string]string {
	all := map[string]string{
		"os":               t.OS,
		"arch":             t.Arch,
		"compiler":         string(t.Compiler),
		"compiler.version": t.CompilerVersion,
		"compiler.libcxx":  t.Libcxx,
		"build_type":       t.BuildType,
	}
	for k, v := range all {
		if v == "" {
			delete(all, k)
		}
	}
	return all
}

// HostToolchain returns the default toolchain facts for the running host.
func HostToolchain() Toolchain {
	t := Toolchain{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		BuildType: "Release",
	}
	switch runtime.GOOS {
	case "darwin":
		t.Compiler, t.Libcxx = AppleClang, LibCxx
	case "windows":
		t.Compiler = MSVC
	default:
		t.Compiler, t.Libcxx = GCC, LibStdCxx11
	}
	return t
}
