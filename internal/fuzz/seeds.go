package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxFuzzInput = 64 << 10 // 64 KiB

var scriptSeeds = []string{
	"",
	"import matplotlib.pyplot as plt\n",
	"import matplotlib.pyplot as plt\nfig, ax = plt.subplots()\nax.text(0.50, 0.50, 'Revenue growth', fontsize=14)\nax.text(0.51, 0.50, 'Cost growth', fontsize=14)\n",
	"plt.rcParams['axes.labelsize'] = 8\nplt.rcParams.update({'font.size': 6, 'legend.fontsize': 7})\n",
	"fig, axes = plt.subplots(2, 3, figsize=(12, 8))\naxes[0, 1].set_title('Q1', fontsize=9)\n",
	"ax.annotate('peak', xy=(3, 9), xytext=(0.2, 0.8), textcoords='axes fraction', fontsize=8)\n",
	"ax.set_xlim(0, 10)\nax.text(5, 0.5, 'mid', ha='center', va='center')\n",
	"ax.add_patch(Rectangle((0.1, 0.1), 0.3, 0.2))\nax.text(0.1, 0.1, 'edge')\n",
	"ax.text(x, 0.5, f'{label}', fontsize=size)\n",
	"s = '''multi\nline'''\nax.text(0.1, 0.9, s)\n",
	"ax.text(0.1, 0.2, 'unterminated\n",
	"ax.text((((((0.1, 0.2, 'deep'\n",
	"ax.set_title('Заголовок 標題', fontsize=12)\n",
	"\tax.text(0.5,\\\n 0.5, 'tab')\r\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range scriptSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.py under ../../testdata when it exists.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".py" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src))
		return nil
	})
}

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

func truncateForLog(data []byte, n int) []byte {
	if len(data) <= n {
		return data
	}
	return data[:n]
}
