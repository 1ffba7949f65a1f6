//go:build !(tinygo && bootdebug)

package app

import "clockface/hal"

func bootDiagSetStep(string) {}

func bootDiagStart(hal.HAL) {}
