package app

// MinCourtPasswordLen is the minimum length accepted for a court
// password at creation time.
const MinCourtPasswordLen = 4
