package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png" // DecodeConfig for the embedded chart
	"io"
	"os"
	"path/filepath"
	"text/template"

	"github.com/easty4690-png/ab-agri-timeline/pkg/debug"
	"github.com/easty4690-png/ab-agri-timeline/pkg/layout"
)

// Slide dimensions of the default 4:3 deck, in EMU (914400 per inch).
const (
	emuPerInch  = 914400
	SlideWidth  = 10 * emuPerInch
	SlideHeight = 7.5 * emuPerInch

	DefaultSlideMarginIn = 0.3
)

// SlideOptions controls slide export.
type SlideOptions struct {
	DPI      float64 // raster resolution of the embedded chart; 0 selects DefaultPNGDPI
	MarginIn float64 // margin on every side in inches; 0 selects DefaultSlideMarginIn
}

// Placement is an image frame on the slide in EMU.
type Placement struct {
	Left, Top, Width, Height int64
}

// FitImage scales an image of the given pixel size into the slide minus the
// margin, preserving aspect ratio, and centres it in the available area.
func FitImage(imgW, imgH int, slideW, slideH, margin int64) Placement {
	availW := slideW - 2*margin
	availH := slideH - 2*margin
	if imgW <= 0 || imgH <= 0 || availW <= 0 || availH <= 0 {
		return Placement{Left: margin, Top: margin, Width: max(availW, 0), Height: max(availH, 0)}
	}
	imgRatio := float64(imgW) / float64(imgH)
	slideRatio := float64(availW) / float64(availH)

	var w, h int64
	if imgRatio > slideRatio {
		w = availW
		h = int64(float64(availW) / imgRatio)
	} else {
		h = availH
		w = int64(float64(availH) * imgRatio)
	}
	return Placement{
		Left:   margin + (availW-w)/2,
		Top:    margin + (availH-h)/2,
		Width:  w,
		Height: h,
	}
}

// SaveSlides renders fig as PNG and writes a one-slide deck to path.
func SaveSlides(fig *layout.Figure, path string, opts SlideOptions) error {
	if fig == nil {
		return errors.New("no figure to export")
	}
	var img bytes.Buffer
	if err := RenderPNG(&img, fig, opts.DPI); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	err = WriteSlides(file, img.Bytes(), opts.MarginIn)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

// WriteSlides writes a .pptx package with a single blank slide holding the
// PNG image.
func WriteSlides(w io.Writer, pngData []byte, marginIn float64) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(pngData))
	if err != nil {
		return fmt.Errorf("decode chart image: %w", err)
	}
	if marginIn <= 0 {
		marginIn = DefaultSlideMarginIn
	}
	pl := FitImage(cfg.Width, cfg.Height, SlideWidth, SlideHeight, int64(marginIn*emuPerInch))
	debug.Log("slides: image %dx%d px placed at %+v EMU", cfg.Width, cfg.Height, pl)

	zw := zip.NewWriter(w)
	for _, part := range pptxParts {
		fw, err := zw.Create(part.name)
		if err != nil {
			return err
		}
		if err := part.tmpl.Execute(fw, pl); err != nil {
			return fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	fw, err := zw.Create("ppt/media/image1.png")
	if err != nil {
		return err
	}
	if _, err := fw.Write(pngData); err != nil {
		return err
	}
	return zw.Close()
}

type pptxPart struct {
	name string
	tmpl *template.Template
}

func part(name, body string) pptxPart {
	return pptxPart{name: name, tmpl: template.Must(template.New(name).Parse(xmlHeader + body))}
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const (
	nsA = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`
	nsR = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	nsP = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

	relNS     = `http://schemas.openxmlformats.org/package/2006/relationships`
	relType   = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/`
	emptyTree = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`
)

var pptxParts = []pptxPart{
	part("[Content_Types].xml", `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Default Extension="png" ContentType="image/png"/>
<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>
<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>
<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>
<Override PartName="/ppt/slides/slide1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>
<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>
</Types>`),

	part("_rels/.rels", `<Relationships xmlns="`+relNS+`">
<Relationship Id="rId1" Type="`+relType+`officeDocument" Target="ppt/presentation.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
<Relationship Id="rId3" Type="`+relType+`extended-properties" Target="docProps/app.xml"/>
</Relationships>`),

	part("docProps/core.xml", `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title>Gantt Chart</dc:title><dc:creator>gantt</dc:creator>
</cp:coreProperties>`),

	part("docProps/app.xml", `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">
<Application>gantt</Application><Slides>1</Slides>
</Properties>`),

	part("ppt/presentation.xml", `<p:presentation `+nsA+` `+nsR+` `+nsP+` saveSubsetFonts="1">
<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>
<p:sldIdLst><p:sldId id="256" r:id="rId2"/></p:sldIdLst>
<p:sldSz cx="9144000" cy="6858000" type="screen4x3"/>
<p:notesSz cx="6858000" cy="9144000"/>
</p:presentation>`),

	part("ppt/_rels/presentation.xml.rels", `<Relationships xmlns="`+relNS+`">
<Relationship Id="rId1" Type="`+relType+`slideMaster" Target="slideMasters/slideMaster1.xml"/>
<Relationship Id="rId2" Type="`+relType+`slide" Target="slides/slide1.xml"/>
<Relationship Id="rId3" Type="`+relType+`theme" Target="theme/theme1.xml"/>
</Relationships>`),

	part("ppt/slideMasters/slideMaster1.xml", `<p:sldMaster `+nsA+` `+nsR+` `+nsP+`>
<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>`+emptyTree+`</p:spTree></p:cSld>
<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>
<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>
</p:sldMaster>`),

	part("ppt/slideMasters/_rels/slideMaster1.xml.rels", `<Relationships xmlns="`+relNS+`">
<Relationship Id="rId1" Type="`+relType+`slideLayout" Target="../slideLayouts/slideLayout1.xml"/>
<Relationship Id="rId2" Type="`+relType+`theme" Target="../theme/theme1.xml"/>
</Relationships>`),

	part("ppt/slideLayouts/slideLayout1.xml", `<p:sldLayout `+nsA+` `+nsR+` `+nsP+` type="blank" preserve="1">
<p:cSld name="Blank"><p:spTree>`+emptyTree+`</p:spTree></p:cSld>
<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>
</p:sldLayout>`),

	part("ppt/slideLayouts/_rels/slideLayout1.xml.rels", `<Relationships xmlns="`+relNS+`">
<Relationship Id="rId1" Type="`+relType+`slideMaster" Target="../slideMasters/slideMaster1.xml"/>
</Relationships>`),

	part("ppt/slides/slide1.xml", `<p:sld `+nsA+` `+nsR+` `+nsP+`>
<p:cSld><p:spTree>`+emptyTree+`
<p:pic>
<p:nvPicPr><p:cNvPr id="2" name="Gantt Chart"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>
<p:blipFill><a:blip r:embed="rId2"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>
<p:spPr><a:xfrm><a:off x="{{.Left}}" y="{{.Top}}"/><a:ext cx="{{.Width}}" cy="{{.Height}}"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>
</p:pic>
</p:spTree></p:cSld>
<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>
</p:sld>`),

	part("ppt/slides/_rels/slide1.xml.rels", `<Relationships xmlns="`+relNS+`">
<Relationship Id="rId1" Type="`+relType+`slideLayout" Target="../slideLayouts/slideLayout1.xml"/>
<Relationship Id="rId2" Type="`+relType+`image" Target="../media/image1.png"/>
</Relationships>`),

	part("ppt/theme/theme1.xml", `<a:theme `+nsA+` name="Office Theme"><a:themeElements>
<a:clrScheme name="Office">
<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1><a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>
<a:dk2><a:srgbClr val="1F497D"/></a:dk2><a:lt2><a:srgbClr val="EEECE1"/></a:lt2>
<a:accent1><a:srgbClr val="4F81BD"/></a:accent1><a:accent2><a:srgbClr val="C0504D"/></a:accent2>
<a:accent3><a:srgbClr val="9BBB59"/></a:accent3><a:accent4><a:srgbClr val="8064A2"/></a:accent4>
<a:accent5><a:srgbClr val="4BACC6"/></a:accent5><a:accent6><a:srgbClr val="F79646"/></a:accent6>
<a:hlink><a:srgbClr val="0000FF"/></a:hlink><a:folHlink><a:srgbClr val="800080"/></a:folHlink>
</a:clrScheme>
<a:fontScheme name="Office">
<a:majorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>
<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>
</a:fontScheme>
<a:fmtScheme name="Office">
<a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>
<a:lnStyleLst><a:ln w="9525"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="25400"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="38100"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst>
<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>
<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst>
</a:fmtScheme>
</a:themeElements></a:theme>`),
}
