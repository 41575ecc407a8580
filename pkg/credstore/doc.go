// Package credstore persists the linked wallet: the wallet-link token and
// the owner address. Items are plain string key/value pairs.
//
// FileStore keeps them in one JSON file sealed with NaCl secretbox under
// a scrypt-derived key. MemoryStore is for tests and one-shot CLI runs.
package credstore
