// Package unpack turns resolved artifacts into staged npm packages.
//
// Every recognized artifact is extracted below the staging root, one
// directory per package name. Artifacts that ship a package.json keep it;
// the others get a synthesized manifest per module they declare. The staged
// set is written to the record file so the link stage can run later in a
// separate invocation.
//
// Two artifacts may produce the same package name. The CollisionPolicy
// decides what happens: with CollisionLastWins the later artifact in
// resolution order replaces the earlier one, with CollisionFail the unpack
// aborts.
package unpack
