package domain

// KeyPrefix is the default prefix for every key the service writes.
const KeyPrefix = "talentmatch:"
