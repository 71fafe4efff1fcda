// Package vizdot renders the loop nest / storage hierarchy and the
// design-space catalogs as Graphviz DOT, for debugging and documentation —
// the same role pkg/render/nodelink and pkg/core/dag/perm play for the
// teacher's dependency graphs and PQ-trees.
//
// NestDOT draws the storage levels outermost to innermost, each as a box
// listing the loops bound to it. CatalogDOT draws one node per (level,
// dataspace) slot, shaped by whether it carries splitting options (ellipse)
// or packing options (box) and labelled with how many, while an entirely
// concordant slot is drawn as a dashed grey box.
package vizdot
