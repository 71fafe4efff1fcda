// Package materialize implements construct(splitting_id, packing_id), the
// core's on-demand layout materializer (spec §4.3).
//
// Construct resets a fresh copy of the concordant layout, mixed-radix
// decodes both IDs into per-(level, dataspace) option indices (outermost
// level to innermost, last dataspace to first — the order P1 and scenario
// E in spec §8 depend on), applies every selected splitting option before
// any packing option (spec §5's ordering guarantee), and validates I1 on
// the result.
//
// Status reporting spec §4.3 and §7 describe as a dual (layout, status)
// return is folded into this repo's single coded-error convention
// ([github.com/maeri-project/timeloop/pkg/errors]): an ID-out-of-range or
// option-inapplicable result surfaces as a non-fatal *errors.Error a
// caller can recover from with errors.Fatal(errors.GetCode(err)) == false
// (spec §7's recovery policy), while an I1 breach after construct surfaces
// as a fatal one.
package materialize
