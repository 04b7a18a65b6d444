package treebuilder

import "github.com/go-htmlcore/treebuilder/sink"

// integrationKey identifies an element by namespace+tag for the
// integration-point lookup tables (§13.2.6.5).
type integrationKey struct {
	namespace sink.Namespace
	tag       string
}

var htmlIntegrationPoints = map[integrationKey]bool{
	{sink.SVG, "foreignObject"}: true,
	{sink.SVG, "desc"}:          true,
	{sink.SVG, "title"}:         true,
}

var mathMLTextIntegrationPoints = map[integrationKey]bool{
	{sink.MathML, "mi"}:    true,
	{sink.MathML, "mo"}:    true,
	{sink.MathML, "mn"}:    true,
	{sink.MathML, "ms"}:    true,
	{sink.MathML, "mtext"}: true,
}

// foreignBreakoutElements are HTML elements that, when seen as a start
// tag while inside foreign content, force a return to HTML insertion
// mode rules.
var foreignBreakoutElements = map[string]bool{
	"b": true, "big": true, "blockquote": true, "body": true, "br": true,
	"center": true, "code": true, "dd": true, "div": true, "dl": true,
	"dt": true, "em": true, "embed": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "head": true, "hr": true, "i": true,
	"img": true, "li": true, "listing": true, "menu": true, "meta": true,
	"nobr": true, "ol": true, "p": true, "pre": true, "ruby": true, "s": true,
	"small": true, "span": true, "strong": true, "strike": true, "sub": true,
	"sup": true, "table": true, "tt": true, "u": true, "ul": true, "var": true,
}

var svgTagNameAdjustments = map[string]string{
	"altglyph": "altGlyph", "altglyphdef": "altGlyphDef", "altglyphitem": "altGlyphItem",
	"animatecolor": "animateColor", "animatemotion": "animateMotion",
	"animatetransform": "animateTransform", "clippath": "clipPath",
	"feblend": "feBlend", "fecolormatrix": "feColorMatrix",
	"fecomponenttransfer": "feComponentTransfer", "fecomposite": "feComposite",
	"feconvolvematrix": "feConvolveMatrix", "fediffuselighting": "feDiffuseLighting",
	"fedisplacementmap": "feDisplacementMap", "fedistantlight": "feDistantLight",
	"fedropshadow": "feDropShadow", "feflood": "feFlood", "fefunca": "feFuncA",
	"fefuncb": "feFuncB", "fefuncg": "feFuncG", "fefuncr": "feFuncR",
	"fegaussianblur": "feGaussianBlur", "feimage": "feImage", "femerge": "feMerge",
	"femergenode": "feMergeNode", "femorphology": "feMorphology", "feoffset": "feOffset",
	"fepointlight": "fePointLight", "fespecularlighting": "feSpecularLighting",
	"fespotlight": "feSpotLight", "fetile": "feTile", "feturbulence": "feTurbulence",
	"foreignobject": "foreignObject", "glyphref": "glyphRef", "lineargradient": "linearGradient",
	"radialgradient": "radialGradient", "textpath": "textPath",
}

var svgAttributeAdjustments = map[string]string{
	"attributename": "attributeName", "attributetype": "attributeType",
	"basefrequency": "baseFrequency", "baseprofile": "baseProfile",
	"calcmode": "calcMode", "clippathunits": "clipPathUnits",
	"diffuseconstant": "diffuseConstant", "edgemode": "edgeMode",
	"filterunits": "filterUnits", "glyphref": "glyphRef",
	"gradienttransform": "gradientTransform", "gradientunits": "gradientUnits",
	"kernelmatrix": "kernelMatrix", "kernelunitlength": "kernelUnitLength",
	"keypoints": "keyPoints", "keysplines": "keySplines", "keytimes": "keyTimes",
	"lengthadjust": "lengthAdjust", "limitingconeangle": "limitingConeAngle",
	"markerheight": "markerHeight", "markerunits": "markerUnits", "markerwidth": "markerWidth",
	"maskcontentunits": "maskContentUnits", "maskunits": "maskUnits",
	"numoctaves": "numOctaves", "pathlength": "pathLength",
	"patterncontentunits": "patternContentUnits", "patterntransform": "patternTransform",
	"patternunits": "patternUnits", "pointsatx": "pointsAtX", "pointsaty": "pointsAtY",
	"pointsatz": "pointsAtZ", "preservealpha": "preserveAlpha",
	"preserveaspectratio": "preserveAspectRatio", "primitiveunits": "primitiveUnits",
	"refx": "refX", "refy": "refY", "repeatcount": "repeatCount", "repeatdur": "repeatDur",
	"requiredextensions": "requiredExtensions", "requiredfeatures": "requiredFeatures",
	"specularconstant": "specularConstant", "specularexponent": "specularExponent",
	"spreadmethod": "spreadMethod", "startoffset": "startOffset",
	"stddeviation": "stdDeviation", "stitchtiles": "stitchTiles",
	"surfacescale": "surfaceScale", "systemlanguage": "systemLanguage",
	"tablevalues": "tableValues", "targetx": "targetX", "targety": "targetY",
	"textlength": "textLength", "viewbox": "viewBox", "xchannelselector": "xChannelSelector",
	"ychannelselector": "yChannelSelector", "zoomandpan": "zoomAndPan",
}

var mathMLAttributeAdjustments = map[string]string{
	"definitionurl": "definitionURL",
}

// foreignAttribute is a namespace-qualified attribute rewrite target.
type foreignAttribute struct {
	prefix    string
	localName string
	namespace sink.Namespace
}

var foreignAttributeAdjustments = map[string]foreignAttribute{
	"xlink:actuate": {"xlink", "actuate", sink.XLink},
	"xlink:arcrole": {"xlink", "arcrole", sink.XLink},
	"xlink:href":    {"xlink", "href", sink.XLink},
	"xlink:role":    {"xlink", "role", sink.XLink},
	"xlink:show":    {"xlink", "show", sink.XLink},
	"xlink:title":   {"xlink", "title", sink.XLink},
	"xlink:type":    {"xlink", "type", sink.XLink},
	"xml:lang":      {"xml", "lang", sink.XML},
	"xml:space":     {"xml", "space", sink.XML},
	"xmlns":         {"", "xmlns", sink.XMLNS},
	"xmlns:xlink":   {"xmlns", "xlink", sink.XMLNS},
}
