/*Package twolocus answers two-locus ancestry queries over a set of samples.

  Every query names one or more sample subsets.  The Engine resolves the
  names to tracks, merges the tracks' interval ends into an elementary grid
  (package interval), counts label combinations over the grid (package
  tensor), and compares or tests the resulting tensors:

    PairwiseFrequencies   the combination tensor of one subset
    UniqueCombinations    cells shared by a foreground and absent from a background
    AbsentFromBackground  the same, per foreground sample
    SourcesAtPointPair    the combinations carried at two given loci
    InterlocusDependence  chi-square test of independence per cell
    ContingencyExport     2x2 chi-square tests between two groups

  Sample names are checked before any other work, so a query either runs on
  valid input or fails early with an error of kind errors.NotExist.
*/
package twolocus
