/*Package interval implements parsing and interval-union operations for sets
  of closed integer intervals written as text, e.g. "[25,30] [2,19] [4,8]".
  (Note the 'union'.  Overlapping and touching intervals are merged, not
  tracked separately.)

  Parse turns untrusted text into an ordered []Interval, or reports exactly
  why it could not via *Error.  Merge computes the minimal sorted set of
  disjoint intervals covering the same integer points.  Union provides a
  compact endpoint-array view of a merged set for point queries.

  Positions are PosType (int64); both ends of an Interval are inclusive.
*/
package interval
