/*Package interval computes elementary intervals: the coarsest common
  refinement of several sorted lists of interval ends.

  Intervals are left-open, right-closed in genome coordinates: an end list
  {e0, e1, ...} describes (0, e0], (e0, e1], ...  Every input end list is a
  subset of the elementary end list, so each input interval maps to a
  contiguous run of elementary intervals.
*/
package interval
