//go:build !aspectwrap_noaspect

package provider

import "reflect"

func init() {
	registerMarker(MechanismAspect, reflect.TypeFor[AspectProvider]())
}
