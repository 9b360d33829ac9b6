// Command smsdemo wires an SMS instance against the reference
// in-memory line cache and replays a short synthetic trace, printing a
// label for each phase and the diagnostic counters at the end.
package main

import (
	"fmt"

	"github.com/nmxmxh/smsprefetch"
	"github.com/nmxmxh/smsprefetch/dcache"
)

func main() {
	lines := dcache.NewSetAssocLineCache(512)
	handle := dcache.Handle{
		LineSize:   64,
		OffsetMask: 2048 - 1,
		Lines:      lines,
	}

	s := smsprefetch.New(handle, smsprefetch.DefaultConfig())

	fmt.Println("smsdemo: first-touch then promote to AT")
	s.OnDCacheAccess(dcache.AccessOp{}, 0, 0x1040)
	s.OnDCacheAccess(dcache.AccessOp{}, 0, 0x10C0)

	fmt.Println("smsdemo: evicting a line from the region ends the generation")
	_, _ = lines.Insert(0x1000, false)
	s.OnDCacheInsert(0, 0x5000, 0x1080)

	fmt.Println("smsdemo: next trigger access replays the learned pattern")
	s.OnDCacheAccess(dcache.AccessOp{}, 0, 0x1040)

	snap := s.Counters()
	fmt.Printf("diagnostics: %+v\n", snap)
}
