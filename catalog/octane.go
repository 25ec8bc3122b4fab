package catalog

// OctaneName is the suite label of the built-in static list.
const OctaneName = "octane"

var octaneScripts = []string{
	"octane/base.js",
	"octane/richards.js",
	"octane/deltablue.js",
	"octane/crypto.js",
	"octane/raytrace.js",
	"octane/earley-boyer.js",
	"octane/regexp.js",
	"octane/splay.js",
	"octane/navier-stokes.js",
	"octane/pdfjs.js",
	"octane/mandreel.js",
	"octane/gbemu-part1.js",
	"octane/gbemu-part2.js",
	"octane/code-load.js",
	"octane/box2d.js",
	"octane/zlib.js",
	"octane/zlib-data.js",
	"octane/typescript.js",
	"octane/typescript-input.js",
	"octane/typescript-compiler.js",
}

// Octane returns the Octane suite rooted at root, all scripts evaluated as
// global scripts and run_octane.js last.
func Octane(root string) *Catalog {
	entries := make([]Entry, 0, len(octaneScripts))
	for _, s := range octaneScripts {
		entries = append(entries, Entry{Path: s})
	}
	return Static(OctaneName, root, entries, &Entry{Path: DefaultClassifier.RunnerFile}, DefaultClassifier)
}
