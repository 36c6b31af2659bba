// Package shim hosts one managed plugin behind the fixed set of plugin entry
// points a native host calls: Initialize, Reload, Update, GetString,
// ExecuteBang, CustomFunc and Finalize.
//
// The host identifies each measure by a Handle. Initialize derives the plugin
// paths from a Layout, creates a plugin.Instance and returns its handle;
// the remaining entry points forward to that instance and translate failures
// into sentinel values, so nothing ever fails loudly across the host boundary.
//
//	dir, _ := shim.ModuleDirectory()
//	s := shim.New(shim.Layout{Root: dir, Name: "Demo"})
//	h := s.Initialize(host)
//	fmt.Println(s.Update(h))
//	s.Finalize(h)
//
// Instances are not safe for concurrent use; the host serializes calls per
// handle. The handle table itself is safe for concurrent use.
package shim
