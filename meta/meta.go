// meta/meta.go
package meta

// MAX_DEPTH is the deepest level the anytime search will ever attempt.
const MAX_DEPTH = 100

// MAX_TURNS bounds the length of a local game.
const MAX_TURNS = 300

// SEGMENT_DIR is where shared move segments are created.
const SEGMENT_DIR = "/dev/shm"

// SEGMENT_PREFIX prefixes the name of every shared move segment.
const SEGMENT_PREFIX = "blobwar-"
