/*Package genome maps (chromosome, position) pairs onto a single genome-wide
  coordinate by concatenating chromosomes in karyotype order, and back.

  A Genome is immutable once constructed, so several genome builds can be
  used side by side in one process.
*/
package genome
