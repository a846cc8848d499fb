package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/maps"

	"github.com/elainajones/robotkit/internal/affected"
	"github.com/elainajones/robotkit/internal/robot"
	"github.com/elainajones/robotkit/tools/internal/changenote"
)

// affectedCmd represents the affected command.
var affectedCmd = &cobra.Command{
	Use:   "affected",
	Short: "List test cases affected by changed keywords",
	Long: `Affected walks the keyword call graph from one or more changed seed
keywords, blacklisting every keyword that invokes an affected one
directly, shares a suite file with one, or imports a resource file
containing one, until the set stops growing.  Test cases touching the
final set are printed with their invocation chain and written to CSV.

Seeds come from --keyword or from the "Changed Keywords" yaml listing
of a markdown change note.  Without a seed, the keyword popularity
ranking is printed instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		kws, tcs := loadIndexes(viper.GetString("affected.input"))

		seeds := seedKeywords()
		if len(seeds) == 0 {
			printPopularity(affected.Popularity(kws, tcs))
			return
		}

		tags := viper.GetStringSlice("affected.tag")
		byKey := map[string]affected.Test{}
		for _, seed := range seeds {
			c := affected.Walk(seed, kws)
			for _, t := range c.TestCases(tcs, tags) {
				key := robot.Key(t.Suite, t.Name)
				if have, ok := byKey[key]; ok {
					have.AffectedBy = appendUnique(have.AffectedBy, t.AffectedBy)
					byKey[key] = have
					continue
				}
				byKey[key] = t
			}
		}

		keys := maps.Keys(byKey)
		sort.Strings(keys)

		tests := make([]affected.Test, 0, len(keys))
		for _, key := range keys {
			t := byKey[key]
			tests = append(tests, t)
			fmt.Println(t.Name)
			for _, kw := range t.AffectedBy {
				fmt.Printf("\tvia '%s'\n", kw)
			}
		}

		out := viper.GetString("affected.output")
		f, err := os.Create(out)
		if err != nil {
			glog.Exitf("Cannot create %s: %v", out, err)
		}
		if err := affected.WriteCSV(f, tests); err != nil {
			f.Close()
			glog.Exitf("Cannot write %s: %v", out, err)
		}
		if err := f.Close(); err != nil {
			glog.Exitf("Cannot write %s: %v", out, err)
		}
	},
}

// seedKeywords collects the changed keywords from the --keyword and
// --changenote flags.
func seedKeywords() []string {
	var seeds []string
	if note := viper.GetString("affected.changenote"); note != "" {
		source, err := os.ReadFile(note)
		if err != nil {
			glog.Exitf("Cannot read change note: %v", err)
		}
		seeds, err = changenote.Parse(source)
		if err != nil {
			glog.Exitf("Cannot parse change note %s: %v", note, err)
		}
	}
	if kw := viper.GetString("affected.keyword"); kw != "" {
		seeds = append(seeds, kw)
	}
	return seeds
}

func appendUnique(have, add []string) []string {
	for _, a := range add {
		found := false
		for _, h := range have {
			if h == a {
				found = true
				break
			}
		}
		if !found {
			have = append(have, a)
		}
	}
	sort.Strings(have)
	return have
}

// printPopularity prints the ten most and least invoked keywords from
// the ascending ranking.
func printPopularity(rank []affected.Use) {
	n := 10
	if len(rank) < n {
		n = len(rank)
	}
	fmt.Println("Most common")
	for i := len(rank) - 1; i >= len(rank)-n; i-- {
		fmt.Printf("%d\t%s\n", rank[i].Count, rank[i].Key)
	}
	fmt.Println("Least common")
	for _, u := range rank[:n] {
		fmt.Printf("%d\t%s\n", u.Count, u.Key)
	}
}

func init() {
	rootCmd.AddCommand(affectedCmd)

	affectedCmd.Flags().StringP("input", "i", ".", "Directory tree or suite file to scan for .robot files.")
	affectedCmd.Flags().StringP("keyword", "k", "", "Seed keyword that changed.")
	affectedCmd.Flags().String("changenote", "", "Markdown change note with a \"Changed Keywords\" yaml listing.")
	affectedCmd.Flags().StringSliceP("tag", "t", nil, "Tag a test case must carry to be reported; repeatable.")
	affectedCmd.Flags().StringP("output", "o", "affected.csv", "CSV output path.")
	viper.BindPFlag("affected.input", affectedCmd.Flags().Lookup("input"))
	viper.BindPFlag("affected.keyword", affectedCmd.Flags().Lookup("keyword"))
	viper.BindPFlag("affected.changenote", affectedCmd.Flags().Lookup("changenote"))
	viper.BindPFlag("affected.tag", affectedCmd.Flags().Lookup("tag"))
	viper.BindPFlag("affected.output", affectedCmd.Flags().Lookup("output"))
}
