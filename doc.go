// Package ordmap implements an in-memory ordered map whose keys and
// values are handled through a bundle of callbacks.
//
// A [Map][K, V] keeps its entries in ascending key order under the
// comparator of its [Traits]. The map owns what it stores: Put copies the
// key and value it is given, and Remove, Clear and Destroy release the
// stored copies through the free callbacks, each exactly once.
//
// # Usage
//
//	m, err := ordmap.New(ordmap.Traits[int, *Player]{
//		CopyKey:    func(k int) (int, error) { return k, nil },
//		CopyValue:  copyPlayer,
//		FreeKey:    func(int) {},
//		FreeValue:  func(*Player) {},
//		CompareKey: cmp.Compare[int],
//	})
//	if err != nil {
//		return err
//	}
//	defer m.Destroy()
//
//	_ = m.Put(3, p3)
//	_ = m.Put(1, p1)
//	for k, p := range m.All() {
//		fmt.Println(k, p.Name) // 1, then 3
//	}
//
// For ordered key types that need no copying, [NewOrdered] is enough.
//
// # Iteration
//
// Three ways to walk a map, all in ascending key order:
//   - the shared cursor, [Map.FirstKey] then [Map.NextKey], one walk per
//     map at a time
//   - [Map.Iter], any number of independent [Iterator] handles
//   - [Map.All], [Map.Keys], [Map.Values] for range-over-func loops
//
// Adding or removing keys invalidates walks in progress. The cursor and
// iterators stop and report [ErrIteratorInvalidated]; range loops panic
// with it. Replacing a value under an existing key is always allowed.
//
// # Errors
//
// Mutations return errors matching [ErrNullArgument], [ErrOutOfMemory] or
// [ErrItemNotFound]; [ResultOf] turns them into [Result] codes. A failed
// Put or Clone leaves every map involved exactly as it was.
package ordmap
