package so

import (
	"github.com/smartystreets/assertions"
)

var (
	// ShouldEqual typecasts assertions equivalent
	ShouldEqual = assertions.ShouldEqual
	// ShouldNotEqual typecasts assertions equivalent
	ShouldNotEqual = assertions.ShouldNotEqual
	// ShouldAlmostEqual typecasts assertions equivalent
	ShouldAlmostEqual = assertions.ShouldAlmostEqual
	// ShouldNotAlmostEqual typecasts assertions equivalent
	ShouldNotAlmostEqual = assertions.ShouldNotAlmostEqual
	// ShouldResemble typecasts assertions equivalent
	ShouldResemble = assertions.ShouldResemble
	// ShouldNotResemble typecasts assertions equivalent
	ShouldNotResemble = assertions.ShouldNotResemble
	// ShouldPointTo typecasts assertions equivalent
	ShouldPointTo = assertions.ShouldPointTo
	// ShouldNotPointTo typecasts assertions equivalent
	ShouldNotPointTo = assertions.ShouldNotPointTo
	// ShouldBeNil typecasts assertions equivalent
	ShouldBeNil = assertions.ShouldBeNil
	// ShouldNotBeNil typecasts assertions equivalent
	ShouldNotBeNil = assertions.ShouldNotBeNil
	// ShouldBeTrue typecasts assertions equivalent
	ShouldBeTrue = assertions.ShouldBeTrue
	// ShouldBeFalse typecasts assertions equivalent
	ShouldBeFalse = assertions.ShouldBeFalse
	// ShouldBeZeroValue typecasts assertions equivalent
	ShouldBeZeroValue = assertions.ShouldBeZeroValue
	// ShouldNotBeZeroValue typecasts assertions equivalent
	ShouldNotBeZeroValue = assertions.ShouldNotBeZeroValue

	// ShouldBeGreaterThan typecasts assertions equivalent
	ShouldBeGreaterThan = assertions.ShouldBeGreaterThan
	// ShouldBeGreaterThanOrEqualTo typecasts assertions equivalent
	ShouldBeGreaterThanOrEqualTo = assertions.ShouldBeGreaterThanOrEqualTo
	// ShouldBeLessThan typecasts assertions equivalent
	ShouldBeLessThan = assertions.ShouldBeLessThan
	// ShouldBeLessThanOrEqualTo typecasts assertions equivalent
	ShouldBeLessThanOrEqualTo = assertions.ShouldBeLessThanOrEqualTo
	// ShouldBeBetween typecasts assertions equivalent
	ShouldBeBetween = assertions.ShouldBeBetween
	// ShouldNotBeBetween typecasts assertions equivalent
	ShouldNotBeBetween = assertions.ShouldNotBeBetween
	// ShouldBeBetweenOrEqual typecasts assertions equivalent
	ShouldBeBetweenOrEqual = assertions.ShouldBeBetweenOrEqual
	// ShouldNotBeBetweenOrEqual typecasts assertions equivalent
	ShouldNotBeBetweenOrEqual = assertions.ShouldNotBeBetweenOrEqual

	// ShouldContain typecasts assertions equivalent
	ShouldContain = assertions.ShouldContain
	// ShouldNotContain typecasts assertions equivalent
	ShouldNotContain = assertions.ShouldNotContain
	// ShouldContainKey typecasts assertions equivalent
	ShouldContainKey = assertions.ShouldContainKey
	// ShouldNotContainKey typecasts assertions equivalent
	ShouldNotContainKey = assertions.ShouldNotContainKey
	// ShouldBeIn typecasts assertions equivalent
	ShouldBeIn = assertions.ShouldBeIn
	// ShouldNotBeIn typecasts assertions equivalent
	ShouldNotBeIn = assertions.ShouldNotBeIn
	// ShouldBeEmpty typecasts assertions equivalent
	ShouldBeEmpty = assertions.ShouldBeEmpty
	// ShouldNotBeEmpty typecasts assertions equivalent
	ShouldNotBeEmpty = assertions.ShouldNotBeEmpty
	// ShouldHaveLength typecasts assertions equivalent
	ShouldHaveLength = assertions.ShouldHaveLength

	// ShouldStartWith typecasts assertions equivalent
	ShouldStartWith = assertions.ShouldStartWith
	// ShouldNotStartWith typecasts assertions equivalent
	ShouldNotStartWith = assertions.ShouldNotStartWith
	// ShouldEndWith typecasts assertions equivalent
	ShouldEndWith = assertions.ShouldEndWith
	// ShouldNotEndWith typecasts assertions equivalent
	ShouldNotEndWith = assertions.ShouldNotEndWith
	// ShouldBeBlank typecasts assertions equivalent
	ShouldBeBlank = assertions.ShouldBeBlank
	// ShouldNotBeBlank typecasts assertions equivalent
	ShouldNotBeBlank = assertions.ShouldNotBeBlank
	// ShouldContainSubstring typecasts assertions equivalent
	ShouldContainSubstring = assertions.ShouldContainSubstring
	// ShouldNotContainSubstring typecasts assertions equivalent
	ShouldNotContainSubstring = assertions.ShouldNotContainSubstring

	// ShouldPanic typecasts assertions equivalent
	ShouldPanic = assertions.ShouldPanic
	// ShouldNotPanic typecasts assertions equivalent
	ShouldNotPanic = assertions.ShouldNotPanic
	// ShouldPanicWith typecasts assertions equivalent
	ShouldPanicWith = assertions.ShouldPanicWith
	// ShouldNotPanicWith typecasts assertions equivalent
	ShouldNotPanicWith = assertions.ShouldNotPanicWith

	// ShouldHaveSameTypeAs typecasts assertions equivalent
	ShouldHaveSameTypeAs = assertions.ShouldHaveSameTypeAs
	// ShouldNotHaveSameTypeAs typecasts assertions equivalent
	ShouldNotHaveSameTypeAs = assertions.ShouldNotHaveSameTypeAs
	// ShouldImplement typecasts assertions equivalent
	ShouldImplement = assertions.ShouldImplement
	// ShouldNotImplement typecasts assertions equivalent
	ShouldNotImplement = assertions.ShouldNotImplement

	// ShouldHappenBefore typecasts assertions equivalent
	ShouldHappenBefore = assertions.ShouldHappenBefore
	// ShouldHappenOnOrBefore typecasts assertions equivalent
	ShouldHappenOnOrBefore = assertions.ShouldHappenOnOrBefore
	// ShouldHappenAfter typecasts assertions equivalent
	ShouldHappenAfter = assertions.ShouldHappenAfter
	// ShouldHappenOnOrAfter typecasts assertions equivalent
	ShouldHappenOnOrAfter = assertions.ShouldHappenOnOrAfter
	// ShouldHappenBetween typecasts assertions equivalent
	ShouldHappenBetween = assertions.ShouldHappenBetween
	// ShouldHappenOnOrBetween typecasts assertions equivalent
	ShouldHappenOnOrBetween = assertions.ShouldHappenOnOrBetween
	// ShouldNotHappenOnOrBetween typecasts assertions equivalent
	ShouldNotHappenOnOrBetween = assertions.ShouldNotHappenOnOrBetween
	// ShouldHappenWithin typecasts assertions equivalent
	ShouldHappenWithin = assertions.ShouldHappenWithin
	// ShouldNotHappenWithin typecasts assertions equivalent
	ShouldNotHappenWithin = assertions.ShouldNotHappenWithin
	// ShouldBeChronological typecasts assertions equivalent
	ShouldBeChronological = assertions.ShouldBeChronological

	// ShouldBeError typecasts assertions equivalent
	ShouldBeError = assertions.ShouldBeError
)
