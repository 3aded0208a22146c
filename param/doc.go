// Package param provides typed, zero-copy access to the rows of a loaded param file.
//
// A param file is a table of fixed-size records ("rows") keyed by a 32-bit ID.
// The table is used in place: nothing is decoded or copied when it is opened,
// and typed rows are pointers straight into the caller's buffer.
//
// # Core Types
//
// **Table**: Classifies the header once and answers header queries
//   - RowCount, ParamdefVersion, StructName, Revision
//   - FindIndex: ID to descriptor index through the sorted lookup table
//   - RowSize, Descriptor, RowName, Checksum
//
// **Views**: Typed row access, valid only inside a scope
//   - View[T]: GetByID, GetByIndex, Rows (read scope)
//   - MutView[T]: GetMutByID, GetMutByIndex, RowsMut (write scope)
//   - RawView: row payloads as byte slices, for either byte order
//
// **Encoder**: Produces param files for either layout revision
//
// # Scopes
//
// A Table carries a reader/writer lock. Read and ReadRaw take it shared,
// Write and WriteRaw take it exclusive, TryWrite fails with errs.ErrTableBusy
// instead of waiting:
//
//	tbl, err := param.New(buf)
//
//	err = param.Read(tbl, func(v param.View[Weapon]) error {
//	    if w, ok := v.GetByID(1000); ok {
//	        fmt.Println(w.Damage)
//	    }
//	    return nil
//	})
//
//	err = param.WriteAs(tbl, "WEAPON_PARAM_ST", func(v param.MutView[Weapon]) error {
//	    for _, w := range v.RowsMut() {
//	        w.Damage *= 2
//	    }
//	    return nil
//	})
//
// Pointers and slices obtained inside a scope must not be kept after it returns.
// Opening a second scope on the same table from inside a write scope deadlocks.
//
// # Record Types
//
// T must be a fixed-size value type without pointers (no strings, slices, maps
// or interfaces) whose layout matches the rows. Whether it matches cannot be
// verified from the file; ReadAs and WriteAs compare the declared struct name
// first, which is the only check the format allows. Typed views are refused
// for tables whose byte order differs from the host's.
//
// # Missing Rows
//
// Unknown IDs, out-of-range indexes and rows whose payload would run past the
// buffer are reported with a false second result, never with an error.
package param
