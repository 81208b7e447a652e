//go:build !aspectwrap_nointercept

package provider

import "reflect"

func init() {
	registerMarker(MechanismIntercepting, reflect.TypeFor[InterceptingProvider]())
}
