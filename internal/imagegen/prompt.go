package imagegen

import "fmt"

// BuildPrompt renders the master art-direction prompt for the 1970s
// single-panel comic style around the user's text.
func BuildPrompt(userText string) string {
	return fmt.Sprintf(`A vertical vintage single-panel comic strip in the iconic style of Kim Casali's 'Love is...' series from the 1970s, but themed as 'Fatherhood is...'.

The artwork features two stylized, chibi-like characters: a father figure (taller) and a child (smaller, about 60%% the height). Both characters have large heads, small simple bodies, and dot eyes with no mouths or very simple facial expressions.

The scene depicts: %s

The father and child should be shown in a touching, heartwarming moment that illustrates the concept of "%s".

STYLE REQUIREMENTS:
- Hand-drawn ink line art with flat, slightly imperfect marker-style coloring
- Lines are sketchy and organic, not vector-perfect
- Simple chibi proportions: big heads, small bodies
- Only dot eyes (two small black dots per character)
- No detailed mouths, noses, or complex facial features
- Minimal clothing details - simple shapes and colors
- Muted primary colors: faded red, blue, yellow, with black ink outlines
- Background: PURE WHITE (clean white background, no texture or aging)
- The overall aesthetic is nostalgic, whimsical, and warm
- Resembling a vintage comic strip card

COMPOSITION AND FRAMING:
- Vertical rectangle format (portrait orientation, 2:3 aspect ratio)
- IMPORTANT: The ENTIRE image (text + illustration + white background) should be wrapped with a thin black border around all edges (like a vintage postcard frame)
- Characters centered with space around them
- Clean, crisp look on pure white background
- Leave space at top and bottom for text
- The black frame is the outermost element wrapping everything

NEGATIVE ELEMENTS TO AVOID:
- NO photorealistic details
- NO 3D render, shiny, or glossy effects
- NO high definition detailed anatomy
- NO distinct fingers or detailed hands
- NO vector art or digital painting style
- NO gradients or neon colors
- NO aged, yellowed, or textured paper background (use pure white only)
- NO anime style or manga style
- NO text or captions in the image itself (text will be added separately)

The style should authentically replicate the warm, innocent, hand-drawn quality of the original 1970s Kim Casali 'Love is...' comic strips, but adapted for the theme of fatherhood.`, userText, userText)
}

// BuildReferencePrompt wraps the master prompt with layout instructions when a
// style reference image accompanies the request.
func BuildReferencePrompt(userText string) string {
	return fmt.Sprintf(`Generate an image in EXACTLY the same style as the reference image above.

%s

IMPORTANT: Include text in the image layout:
- At the top left corner: "Fatherhood is..." in a simple serif font (similar to the reference)
- At the top right corner: Two overlapping red hearts
- At the bottom of the image: "%s" in italic handwritten-style font

After adding text and characters, wrap THE ENTIRE IMAGE (text + illustration) with a thin black border frame around the edges.

The text should be integrated naturally into the vintage comic strip layout, matching the reference image style.`, BuildPrompt(userText), userText)
}
